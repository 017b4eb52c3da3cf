// pkg/empresas/memory.go
package empresas

import (
	"context"
	"sort"
	"sync"
	"time"
)

// memStore is the in-memory Store used for dev bring-up and tests.
type memStore struct {
	mu       sync.RWMutex
	nextID   int64
	empresas map[int64]Empresa
	configs  map[int64]ReportConfig
	assoc    map[int64]map[int64]struct{} // empresaID -> set of configIDs
}

func NewMemoryStore() Store {
	return &memStore{
		nextID:   1,
		empresas: map[int64]Empresa{},
		configs:  map[int64]ReportConfig{},
		assoc:    map[int64]map[int64]struct{}{},
	}
}

func (m *memStore) CreateEmpresa(_ context.Context, e *Empresa) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.empresas {
		if ex.Nombre == e.Nombre || ex.ClientID == e.ClientID {
			return ErrDuplicate
		}
	}
	e.ID = m.nextID
	m.nextID++
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	m.empresas[e.ID] = *e
	return nil
}

func (m *memStore) GetEmpresa(_ context.Context, id int64) (Empresa, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.empresas[id]; ok {
		return e, nil
	}
	return Empresa{}, ErrNotFound
}

func (m *memStore) GetEmpresaByClientID(_ context.Context, clientID string) (Empresa, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.empresas {
		if e.ClientID == clientID {
			return e, nil
		}
	}
	return Empresa{}, ErrNotFound
}

func (m *memStore) ListEmpresas(_ context.Context) ([]Empresa, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Empresa, 0, len(m.empresas))
	for _, e := range m.empresas {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (m *memStore) UpdateEmpresa(_ context.Context, id int64, nombre, cuit string) (Empresa, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.empresas[id]
	if !ok {
		return Empresa{}, ErrNotFound
	}
	for _, ex := range m.empresas {
		if ex.ID != id && ex.Nombre == nombre {
			return Empresa{}, ErrDuplicate
		}
	}
	e.Nombre, e.CUIT = nombre, cuit
	e.UpdatedAt = time.Now().UTC()
	m.empresas[id] = e
	return e, nil
}

func (m *memStore) SetEmpresaCredentials(_ context.Context, id int64, clientID, secretHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.empresas[id]
	if !ok {
		return ErrNotFound
	}
	e.ClientID, e.SecretHash = clientID, secretHash
	e.UpdatedAt = time.Now().UTC()
	m.empresas[id] = e
	return nil
}

func (m *memStore) SetEmpresaActive(_ context.Context, id int64, active bool) (Empresa, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.empresas[id]
	if !ok {
		return Empresa{}, ErrNotFound
	}
	e.Active = active
	e.UpdatedAt = time.Now().UTC()
	m.empresas[id] = e
	return e, nil
}

func (m *memStore) DeleteEmpresa(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.empresas[id]; !ok {
		return ErrNotFound
	}
	if len(m.assoc[id]) > 0 {
		return ErrHasAssociations
	}
	delete(m.empresas, id)
	delete(m.assoc, id)
	return nil
}

func (m *memStore) CreateReportConfig(_ context.Context, rc *ReportConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rc.ID = m.nextID
	m.nextID++
	rc.CreatedAt = time.Now().UTC()
	m.configs[rc.ID] = *rc
	return nil
}

func (m *memStore) GetReportConfig(_ context.Context, id int64) (ReportConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rc, ok := m.configs[id]; ok {
		return rc, nil
	}
	return ReportConfig{}, ErrNotFound
}

func (m *memStore) ListReportConfigs(_ context.Context) ([]ReportConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ReportConfig, 0, len(m.configs))
	for _, rc := range m.configs {
		out = append(out, rc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) ListPrivateConfigs(_ context.Context, empresaID int64) ([]ReportConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []ReportConfig{}
	for id := range m.assoc[empresaID] {
		if rc, ok := m.configs[id]; ok && rc.Privado {
			out = append(out, rc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) IsAssociated(_ context.Context, empresaID, configID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.assoc[empresaID][configID]
	return ok, nil
}

func (m *memStore) ListAssociations(_ context.Context, empresaID int64) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []int64{}
	for id := range m.assoc[empresaID] {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (m *memStore) ReplaceAssociations(_ context.Context, empresaID int64, configIDs []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.empresas[empresaID]; !ok {
		return ErrNotFound
	}
	set := make(map[int64]struct{}, len(configIDs))
	for _, id := range configIDs {
		rc, ok := m.configs[id]
		if !ok {
			return ErrNotFound
		}
		if !rc.Privado {
			return ErrNotPrivate
		}
		set[id] = struct{}{}
	}
	m.assoc[empresaID] = set
	return nil
}
