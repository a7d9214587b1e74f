package payments

import (
	"context"
	"fmt"
)

// Manager keeps the configured providers and routes calls to the active one.
type Manager struct {
	gateways map[string]Gateway
	active   string
}

func NewManager(active string) *Manager {
	return &Manager{gateways: make(map[string]Gateway), active: active}
}

func (m *Manager) RegisterGateway(g Gateway) {
	m.gateways[g.Name()] = g
}

func (m *Manager) Gateway(name string) (Gateway, error) {
	g, ok := m.gateways[name]
	if !ok {
		return nil, fmt.Errorf("gateway not registered: %s", name)
	}
	return g, nil
}

func (m *Manager) Name() string { return m.active }

func (m *Manager) CreateVirtualAccount(ctx context.Context, req VirtualAccountRequest) (VirtualAccount, error) {
	g, err := m.Gateway(m.active)
	if err != nil {
		return VirtualAccount{}, err
	}
	return g.CreateVirtualAccount(ctx, req)
}

func (m *Manager) CreateQRCharge(ctx context.Context, req QRRequest) (QRCharge, error) {
	g, err := m.Gateway(m.active)
	if err != nil {
		return QRCharge{}, err
	}
	return g.CreateQRCharge(ctx, req)
}
