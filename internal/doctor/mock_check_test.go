package doctor

import (
	"testing"

	"github.com/stretchr/testify/mock"
)

// mockCheck is a testify mock implementing Check.
type mockCheck struct {
	mock.Mock
}

func newMockCheck(t *testing.T) *mockCheck {
	m := &mockCheck{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *mockCheck) Name() string {
	return m.Called().String(0)
}

func (m *mockCheck) Category() string {
	return m.Called().String(0)
}

func (m *mockCheck) Run() *CheckResult {
	args := m.Called()
	r, _ := args.Get(0).(*CheckResult)
	return r
}
