package request_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-escolar-api/internal/application/allocation"
	"github.com/jhoicas/almacen-escolar-api/internal/application/request"
	"github.com/jhoicas/almacen-escolar-api/internal/application/stock"
	"github.com/jhoicas/almacen-escolar-api/internal/domain"
	"github.com/jhoicas/almacen-escolar-api/internal/domain/entity"
	"github.com/jhoicas/almacen-escolar-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture en memoria: solicitudes, usuarios y stock con asignador real.
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	uc        *request.WorkflowUseCase
	requests  *memRequestRepo
	users     *memUserRepo
	items     map[string]*entity.StockItem
	movements []*entity.StockMovement
}

var (
	_ repository.StockItemRepository     = (*fixture)(nil)
	_ stock.TxRunner                     = (*fixture)(nil)
	_ repository.StockMovementRepository = (*movementSink)(nil)
)

func newFixture(items ...*entity.StockItem) *fixture {
	f := &fixture{
		requests: &memRequestRepo{byID: make(map[string]*entity.Request)},
		users:    &memUserRepo{byID: make(map[string]*entity.User)},
		items:    make(map[string]*entity.StockItem),
	}
	for _, it := range items {
		cp := *it
		f.items[it.ID] = &cp
	}
	ledger := stock.NewLedgerUseCase(f, &movementSink{f})
	allocator := allocation.NewAllocator(f, ledger)
	f.uc = request.NewWorkflowUseCase(f.requests, f.users, allocator)
	return f
}

// repository.StockItemRepository (solo lo que usa el asignador)

func (f *fixture) Create(item *entity.StockItem) error { return nil }

func (f *fixture) GetByID(id string) (*entity.StockItem, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (f *fixture) GetForUpdate(id string) (*entity.StockItem, error) { return f.GetByID(id) }

func (f *fixture) List(repository.StockItemFilter) ([]*entity.StockItem, error) { return nil, nil }

func (f *fixture) ListAvailableByName(name string) ([]*entity.StockItem, error) {
	var out []*entity.StockItem
	for _, it := range f.items {
		if it.Name != name || it.Quantity <= 0 {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.ExpirationDate == nil && b.ExpirationDate == nil:
			return a.ID < b.ID
		case a.ExpirationDate == nil:
			return false
		case b.ExpirationDate == nil:
			return true
		case !a.ExpirationDate.Equal(*b.ExpirationDate):
			return a.ExpirationDate.Before(*b.ExpirationDate)
		default:
			return a.ID < b.ID
		}
	})
	return out, nil
}

func (f *fixture) Update(item *entity.StockItem) error { return nil }

func (f *fixture) UpdateQuantity(id string, quantity int) error {
	if it, ok := f.items[id]; ok {
		it.Quantity = quantity
	}
	return nil
}

func (f *fixture) Delete(id string) error { return nil }

func (f *fixture) Run(_ context.Context, fn func(repository.StockItemRepository, repository.StockMovementRepository) error) error {
	return fn(f, &movementSink{f})
}

// movementSink satisface el repo de movimientos acumulando en la fixture.
type movementSink struct{ f *fixture }

func (m *movementSink) Create(mov *entity.StockMovement) error {
	cp := *mov
	m.f.movements = append(m.f.movements, &cp)
	return nil
}

func (m *movementSink) GetByID(id string) (*entity.StockMovement, error) {
	for _, mov := range m.f.movements {
		if mov.ID == id {
			cp := *mov
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *movementSink) List(repository.StockMovementFilter) ([]*entity.StockMovement, error) {
	return m.f.movements, nil
}

type memRequestRepo struct {
	byID map[string]*entity.Request
}

var _ repository.RequestRepository = (*memRequestRepo)(nil)

func (r *memRequestRepo) Create(req *entity.Request) error {
	cp := *req
	r.byID[req.ID] = &cp
	return nil
}

func (r *memRequestRepo) GetByID(id string) (*entity.Request, error) {
	req, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

func (r *memRequestRepo) List(filter repository.RequestFilter) ([]*entity.Request, error) {
	var out []*entity.Request
	for _, req := range r.byID {
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.CoordinationStatus != "" && req.CoordinationStatus != filter.CoordinationStatus {
			continue
		}
		if filter.RequesterID != "" && req.RequesterID != filter.RequesterID {
			continue
		}
		cp := *req
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memRequestRepo) Update(req *entity.Request) error {
	cp := *req
	r.byID[req.ID] = &cp
	return nil
}

type memUserRepo struct {
	byID map[string]*entity.User
}

var _ repository.UserRepository = (*memUserRepo)(nil)

func (r *memUserRepo) Create(u *entity.User) error {
	r.byID[u.ID] = u
	return nil
}

func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (r *memUserRepo) GetByEmail(string) (*entity.User, error) { return nil, nil }

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func linea(name string, qty int) entity.RequestLine {
	return entity.RequestLine{Name: name, Quantity: qty}
}

// ──────────────────────────────────────────────────────────────────────────────
// Submit — la puerta de coordinación según el rol
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_ProfesorQuedaPendienteDeCoordinacion(t *testing.T) {
	f := newFixture()

	req, err := f.uc.Submit(context.Background(), "prof-1", entity.RoleProfesor,
		[]entity.RequestLine{linea("Tiza", 2)}, "para el aula 3")
	require.NoError(t, err)

	assert.Equal(t, entity.RequestStatusPending, req.Status)
	assert.Equal(t, entity.CoordinationPending, req.CoordinationStatus,
		"las solicitudes de profesores pasan por coordinación")
	assert.NotEmpty(t, req.ID)
}

func TestSubmit_CoordinacionPasaDirecto(t *testing.T) {
	f := newFixture()

	req, err := f.uc.Submit(context.Background(), "coord-1", entity.RoleCoordinacion,
		[]entity.RequestLine{linea("Tiza", 2)}, "")
	require.NoError(t, err)

	assert.Equal(t, entity.CoordinationApproved, req.CoordinationStatus,
		"coordinación no se aprueba a sí misma: pasa directo a almacén")
}

func TestSubmit_Validaciones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.uc.Submit(ctx, "", entity.RoleProfesor, []entity.RequestLine{linea("Tiza", 1)}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Submit(ctx, "prof-1", entity.RoleProfesor, nil, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Submit(ctx, "prof-1", entity.RoleProfesor, []entity.RequestLine{linea("", 1)}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Submit(ctx, "prof-1", entity.RoleProfesor, []entity.RequestLine{linea("Tiza", 0)}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// CoordinationDecide — decisión de un solo disparo
// ──────────────────────────────────────────────────────────────────────────────

func TestCoordinationDecide_Aprueba(t *testing.T) {
	f := newFixture()
	req, err := f.uc.Submit(context.Background(), "prof-1", entity.RoleProfesor,
		[]entity.RequestLine{linea("Tiza", 1)}, "")
	require.NoError(t, err)

	decided, err := f.uc.CoordinationDecide(context.Background(), req.ID, true, "coord-1")
	require.NoError(t, err)

	assert.Equal(t, entity.CoordinationApproved, decided.CoordinationStatus)
	assert.Equal(t, entity.RequestStatusPending, decided.Status, "aprobar no confirma: solo abre la cola de almacén")
	assert.Equal(t, "coord-1", decided.ApprovedBy)
	require.NotNil(t, decided.DecidedAt, "la decisión de coordinación queda fechada")
	assert.Nil(t, decided.ConfirmedAt, "aún no hay entrega que confirmar")
}

// Un rechazo en la puerta de coordinación debe dejar la solicitud en rejected
// con su auditoría completa: fecha de decisión y fecha/autor del rechazo.
func TestCoordinationDecide_RechazoEsTerminal(t *testing.T) {
	f := newFixture()
	req, err := f.uc.Submit(context.Background(), "prof-1", entity.RoleProfesor,
		[]entity.RequestLine{linea("Tiza", 1)}, "")
	require.NoError(t, err)

	decided, err := f.uc.CoordinationDecide(context.Background(), req.ID, false, "coord-1")
	require.NoError(t, err)

	assert.Equal(t, entity.CoordinationRejected, decided.CoordinationStatus)
	assert.Equal(t, entity.RequestStatusRejected, decided.Status)
	require.NotNil(t, decided.DecidedAt)
	require.NotNil(t, decided.RejectedAt, "el rechazo de coordinación queda fechado")
	assert.Equal(t, "coord-1", decided.RejectedBy)
	assert.Nil(t, decided.ConfirmedAt, "una solicitud rechazada nunca reporta confirmación")
}

func TestCoordinationDecide_UnSoloDisparo(t *testing.T) {
	f := newFixture()
	req, err := f.uc.Submit(context.Background(), "prof-1", entity.RoleProfesor,
		[]entity.RequestLine{linea("Tiza", 1)}, "")
	require.NoError(t, err)

	_, err = f.uc.CoordinationDecide(context.Background(), req.ID, true, "coord-1")
	require.NoError(t, err)

	_, err = f.uc.CoordinationDecide(context.Background(), req.ID, false, "coord-2")
	assert.ErrorIs(t, err, domain.ErrInvalidState, "la decisión de coordinación no se revisa")
}

func TestCoordinationDecide_NoExiste(t *testing.T) {
	f := newFixture()
	_, err := f.uc.CoordinationDecide(context.Background(), "nada", true, "coord-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fulfill — confirmación con baja FIFO, parciales e idempotencia
// ──────────────────────────────────────────────────────────────────────────────

func TestFulfill_BajaFIFOCompleta(t *testing.T) {
	f := newFixture(
		&entity.StockItem{ID: "marzo", Name: "Gasas", Quantity: 5, ExpirationDate: datePtr(2025, 3, 1)},
		&entity.StockItem{ID: "enero", Name: "Gasas", Quantity: 3, ExpirationDate: datePtr(2025, 1, 10)},
		&entity.StockItem{ID: "sinfecha", Name: "Gasas", Quantity: 10},
	)
	f.users.Create(&entity.User{ID: "prof-1", Name: "Marta Ruiz", Role: entity.RoleProfesor})

	req, err := f.uc.Submit(context.Background(), "prof-1", entity.RoleProfesor,
		[]entity.RequestLine{linea("Gasas", 6)}, "")
	require.NoError(t, err)
	_, err = f.uc.CoordinationDecide(context.Background(), req.ID, true, "coord-1")
	require.NoError(t, err)

	resp, err := f.uc.Fulfill(context.Background(), req.ID, "almacen-1")
	require.NoError(t, err)

	assert.Equal(t, entity.RequestStatusConfirmed, resp.Request.Status)
	assert.Equal(t, "Marta Ruiz", resp.Request.RequesterName, "la vista de la entrega muestra al solicitante")
	assert.False(t, resp.Partial)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, 6, resp.Lines[0].Fulfilled)
	assert.Zero(t, resp.Lines[0].Shortfall)

	assert.Equal(t, 0, f.items["enero"].Quantity, "primero se agota el lote que vence antes")
	assert.Equal(t, 2, f.items["marzo"].Quantity)
	assert.Equal(t, 10, f.items["sinfecha"].Quantity)

	// Las salidas quedan anotadas con el rol y el nombre del solicitante.
	require.Len(t, f.movements, 2)
	assert.Contains(t, f.movements[0].Reason, entity.RoleProfesor)
	assert.Contains(t, f.movements[0].Reason, "Marta Ruiz")
}

func TestFulfill_ParcialSigueConfirmando(t *testing.T) {
	f := newFixture(&entity.StockItem{ID: "a", Name: "Gasas", Quantity: 12})

	req, err := f.uc.Submit(context.Background(), "coord-1", entity.RoleCoordinacion,
		[]entity.RequestLine{linea("Gasas", 50)}, "")
	require.NoError(t, err)

	resp, err := f.uc.Fulfill(context.Background(), req.ID, "almacen-1")
	require.NoError(t, err, "el faltante no es un error: es aviso estructurado")

	assert.True(t, resp.Partial)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, 12, resp.Lines[0].Fulfilled)
	assert.Equal(t, 38, resp.Lines[0].Shortfall)
	assert.Equal(t, entity.RequestStatusConfirmed, resp.Request.Status,
		"la solicitud se confirma aunque el cumplimiento sea parcial")
}

func TestFulfill_LineaSinStockNoFrenaLasDemas(t *testing.T) {
	f := newFixture(&entity.StockItem{ID: "a", Name: "Tiza", Quantity: 10})

	req, err := f.uc.Submit(context.Background(), "coord-1", entity.RoleCoordinacion,
		[]entity.RequestLine{linea("Plastilina", 4), linea("Tiza", 2)}, "")
	require.NoError(t, err)

	resp, err := f.uc.Fulfill(context.Background(), req.ID, "almacen-1")
	require.NoError(t, err)

	require.Len(t, resp.Lines, 2)
	assert.Equal(t, 0, resp.Lines[0].Fulfilled, "sin lotes de plastilina: faltante total")
	assert.Equal(t, 4, resp.Lines[0].Shortfall)
	assert.Equal(t, 2, resp.Lines[1].Fulfilled, "la tiza se entrega igual")
	assert.Equal(t, 8, f.items["a"].Quantity)
	assert.True(t, resp.Partial)
}

func TestFulfill_SinAprobacionDeCoordinacion(t *testing.T) {
	f := newFixture(&entity.StockItem{ID: "a", Name: "Tiza", Quantity: 10})

	req, err := f.uc.Submit(context.Background(), "prof-1", entity.RoleProfesor,
		[]entity.RequestLine{linea("Tiza", 2)}, "")
	require.NoError(t, err)

	_, err = f.uc.Fulfill(context.Background(), req.ID, "almacen-1")
	assert.ErrorIs(t, err, domain.ErrInvalidState, "sin visto bueno de coordinación no hay entrega")
	assert.Empty(t, f.movements, "el intento bloqueado no toca stock")
	assert.Equal(t, 10, f.items["a"].Quantity)
}

// Reinvocar Fulfill sobre una solicitud confirmada debe fallar sin registrar ni
// un movimiento adicional.
func TestFulfill_Idempotencia(t *testing.T) {
	f := newFixture(&entity.StockItem{ID: "a", Name: "Tiza", Quantity: 10})

	req, err := f.uc.Submit(context.Background(), "coord-1", entity.RoleCoordinacion,
		[]entity.RequestLine{linea("Tiza", 2)}, "")
	require.NoError(t, err)

	_, err = f.uc.Fulfill(context.Background(), req.ID, "almacen-1")
	require.NoError(t, err)
	movimientos := len(f.movements)

	_, err = f.uc.Fulfill(context.Background(), req.ID, "almacen-1")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Len(t, f.movements, movimientos, "la segunda confirmación no genera movimientos")
	assert.Equal(t, 8, f.items["a"].Quantity)
}

func TestFulfill_SolicitanteDesconocidoDegradaAlPlaceholder(t *testing.T) {
	f := newFixture(&entity.StockItem{ID: "a", Name: "Tiza", Quantity: 10})

	// El solicitante no está en el repo de usuarios: la resolución de nombre
	// degrada al placeholder, nunca aborta la entrega.
	req, err := f.uc.Submit(context.Background(), "fantasma", entity.RoleCoordinacion,
		[]entity.RequestLine{linea("Tiza", 1)}, "")
	require.NoError(t, err)

	resp, err := f.uc.Fulfill(context.Background(), req.ID, "almacen-1")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusConfirmed, resp.Request.Status)
	assert.Equal(t, "Profesor no identificado", resp.Request.RequesterName)

	require.NotEmpty(t, f.movements)
	assert.Contains(t, f.movements[0].Reason, "Profesor no identificado")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reject y EditLines
// ──────────────────────────────────────────────────────────────────────────────

func TestReject_SoloPendientes(t *testing.T) {
	f := newFixture(&entity.StockItem{ID: "a", Name: "Tiza", Quantity: 10})

	req, err := f.uc.Submit(context.Background(), "coord-1", entity.RoleCoordinacion,
		[]entity.RequestLine{linea("Tiza", 2)}, "")
	require.NoError(t, err)

	rejected, err := f.uc.Reject(context.Background(), req.ID, "almacen-1")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectedAt, "el rechazo de almacén queda fechado")
	assert.Equal(t, "almacen-1", rejected.RejectedBy)
	assert.Nil(t, rejected.ConfirmedAt, "rechazar no es confirmar")
	assert.Empty(t, f.movements, "rechazar no toca stock")

	_, err = f.uc.Reject(context.Background(), req.ID, "almacen-1")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestEditLines_ReemplazaCompleto(t *testing.T) {
	f := newFixture()

	req, err := f.uc.Submit(context.Background(), "prof-1", entity.RoleProfesor,
		[]entity.RequestLine{linea("Tiza", 2), linea("Borrador", 1)}, "")
	require.NoError(t, err)

	edited, err := f.uc.EditLines(context.Background(), req.ID,
		[]entity.RequestLine{linea("Tiza blanca", 3)}, "corregido")
	require.NoError(t, err)

	require.Len(t, edited.Lines, 1, "la edición reemplaza, no agrega")
	assert.Equal(t, "Tiza blanca", edited.Lines[0].Name)
	assert.Equal(t, 3, edited.Lines[0].Quantity)
	assert.Equal(t, "corregido", edited.Observations)
}

func TestEditLines_NoEditaConfirmadas(t *testing.T) {
	f := newFixture(&entity.StockItem{ID: "a", Name: "Tiza", Quantity: 10})

	req, err := f.uc.Submit(context.Background(), "coord-1", entity.RoleCoordinacion,
		[]entity.RequestLine{linea("Tiza", 2)}, "")
	require.NoError(t, err)
	_, err = f.uc.Fulfill(context.Background(), req.ID, "almacen-1")
	require.NoError(t, err)

	_, err = f.uc.EditLines(context.Background(), req.ID,
		[]entity.RequestLine{linea("Tiza", 9)}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ──────────────────────────────────────────────────────────────────────────────
// List — colas de trabajo
// ──────────────────────────────────────────────────────────────────────────────

func TestList_FiltraPorCola(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.uc.Submit(ctx, "prof-1", entity.RoleProfesor, []entity.RequestLine{linea("Tiza", 1)}, "")
	require.NoError(t, err)
	_, err = f.uc.Submit(ctx, "coord-1", entity.RoleCoordinacion, []entity.RequestLine{linea("Tiza", 1)}, "")
	require.NoError(t, err)

	pendientesCoordinacion, err := f.uc.List(repository.RequestFilter{CoordinationStatus: entity.CoordinationPending})
	require.NoError(t, err)
	assert.Len(t, pendientesCoordinacion, 1, "solo la del profesor espera coordinación")

	colaAlmacen, err := f.uc.List(repository.RequestFilter{
		Status:             entity.RequestStatusPending,
		CoordinationStatus: entity.CoordinationApproved,
	})
	require.NoError(t, err)
	assert.Len(t, colaAlmacen, 1, "la de coordinación ya está lista para entregar")
}

func TestList_ResuelveNombreDelSolicitante(t *testing.T) {
	f := newFixture()
	f.users.Create(&entity.User{ID: "prof-1", Name: "Marta Ruiz", Role: entity.RoleProfesor})
	ctx := context.Background()

	_, err := f.uc.Submit(ctx, "prof-1", entity.RoleProfesor, []entity.RequestLine{linea("Tiza", 1)}, "")
	require.NoError(t, err)
	_, err = f.uc.Submit(ctx, "fantasma", entity.RoleCoordinacion, []entity.RequestLine{linea("Tiza", 1)}, "")
	require.NoError(t, err)

	requests, err := f.uc.List(repository.RequestFilter{})
	require.NoError(t, err)
	require.Len(t, requests, 2)

	byRequester := make(map[string]string)
	for _, r := range requests {
		byRequester[r.RequesterID] = r.RequesterName
	}
	assert.Equal(t, "Marta Ruiz", byRequester["prof-1"], "la vista muestra el nombre del solicitante")
	assert.Equal(t, "Profesor no identificado", byRequester["fantasma"],
		"un solicitante irresoluble degrada al placeholder, no a vacío")
}
