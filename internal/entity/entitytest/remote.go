// Package entitytest provides a testify mock of the Home Assistant remote.
package entitytest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/muurk/hatui/internal/homeassistant"
)

// MockRemote implements entity.Remote and the browser's state listing.
type MockRemote struct {
	mock.Mock
}

func (m *MockRemote) GetState(ctx context.Context, entityID string) (*homeassistant.State, error) {
	args := m.Called(ctx, entityID)
	state, _ := args.Get(0).(*homeassistant.State)
	return state, args.Error(1)
}

func (m *MockRemote) GetAllStates(ctx context.Context) ([]homeassistant.State, error) {
	args := m.Called(ctx)
	states, _ := args.Get(0).([]homeassistant.State)
	return states, args.Error(1)
}

func (m *MockRemote) CallService(ctx context.Context, domain, service, entityID string, extras map[string]any) error {
	args := m.Called(ctx, domain, service, entityID, extras)
	return args.Error(0)
}

func (m *MockRemote) Toggle(ctx context.Context, entityID string) error {
	args := m.Called(ctx, entityID)
	return args.Error(0)
}

func (m *MockRemote) TestConnection(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// State builds a state with the given attributes.
func State(entityID, state string, attrs map[string]any) *homeassistant.State {
	if attrs == nil {
		attrs = map[string]any{}
	}
	return &homeassistant.State{EntityID: entityID, State: state, Attributes: attrs}
}
