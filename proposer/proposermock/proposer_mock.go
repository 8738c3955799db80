// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package proposermock is a hand-maintained mock of the proposer.Proposer
// interface, in the shape go.uber.org/mock/mockgen would generate — kept
// in its own subpackage the way the teacher's validatorsmock is, so
// production code never imports gomock.
package proposermock

import (
	"context"
	"reflect"

	"go.uber.org/mock/gomock"

	"github.com/noeticanlabs/cnsc-haai-sub001/candidate"
	"github.com/noeticanlabs/cnsc-haai-sub001/config"
	"github.com/noeticanlabs/cnsc-haai-sub001/proposer"
)

// Proposer is a mock of the proposer.Proposer interface.
type Proposer struct {
	ctrl     *gomock.Controller
	recorder *ProposerMockRecorder
}

// ProposerMockRecorder is the recorder for Proposer.
type ProposerMockRecorder struct {
	mock *Proposer
}

// NewProposer constructs a new mock Proposer.
func NewProposer(ctrl *gomock.Controller) *Proposer {
	mock := &Proposer{ctrl: ctrl}
	mock.recorder = &ProposerMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *Proposer) EXPECT() *ProposerMockRecorder {
	return m.recorder
}

// ID mocks base method.
func (m *Proposer) ID() string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ID")
	ret0, _ := ret[0].(string)
	return ret0
}

// ID indicates an expected call of ID.
func (mr *ProposerMockRecorder) ID() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ID", reflect.TypeOf((*Proposer)(nil).ID))
}

// Propose mocks base method.
func (m *Proposer) Propose(ctx context.Context, reqCtx proposer.ProposalContext, sub config.RequestBudget) ([]candidate.Candidate, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Propose", ctx, reqCtx, sub)
	ret0, _ := ret[0].([]candidate.Candidate)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Propose indicates an expected call of Propose.
func (mr *ProposerMockRecorder) Propose(ctx, reqCtx, sub interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Propose", reflect.TypeOf((*Proposer)(nil).Propose), ctx, reqCtx, sub)
}
