package usecase_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/gestinvlab-api/internal/application/dto"
	"github.com/jhoicas/gestinvlab-api/internal/application/usecase"
	"github.com/jhoicas/gestinvlab-api/internal/domain"
	"github.com/jhoicas/gestinvlab-api/internal/domain/entity"
	"github.com/jhoicas/gestinvlab-api/internal/domain/repository"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes

type fakeUserRepo struct {
	users []*entity.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	u.ID = int64(len(r.users) + 1)
	r.users = append(r.users, u)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ListActive(context.Context) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		if u.IsActive {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Count(context.Context) (int64, error) { return int64(len(r.users)), nil }

type fakeReportRepo struct {
	got   repository.MovementFilter
	total int
	rows  []*entity.Movement
}

func (r *fakeReportRepo) ListMovements(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	r.got = f
	return r.rows, nil
}

func (r *fakeReportRepo) CountMovements(_ context.Context, f repository.MovementFilter) (int, error) {
	return r.total, nil
}

type fakeItemRepo struct {
	repository.ItemRepository
	items map[int64]*entity.Item
	saved *entity.Item
}

func (r *fakeItemRepo) GetByID(_ context.Context, id int64) (*entity.Item, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *fakeItemRepo) UpdateCatalog(_ context.Context, it *entity.Item) error {
	r.saved = it
	return nil
}

func (r *fakeItemRepo) Create(_ context.Context, it *entity.Item) error {
	it.ID = 1
	r.saved = it
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Usuarios

func TestUserUseCase_CreateHasheaYRechazaDuplicado(t *testing.T) {
	repo := &fakeUserRepo{}
	uc := usecase.NewUserUseCase(repo)

	out, err := uc.Create(context.Background(), dto.CreateUserRequest{Username: "mlopez", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleOperador, out.Role)
	require.Len(t, repo.users, 1)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.users[0].PasswordHash), []byte("secreto123")))

	_, err = uc.Create(context.Background(), dto.CreateUserRequest{Username: "mlopez", Password: "otroSecreto"})
	assert.ErrorIs(t, err, domain.ErrUsernameExists)
}

func TestUserUseCase_CreatePasswordCorto(t *testing.T) {
	uc := usecase.NewUserUseCase(&fakeUserRepo{})
	_, err := uc.Create(context.Background(), dto.CreateUserRequest{Username: "x", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserUseCase_EnsureBootstrapAdminSoloConTablaVacia(t *testing.T) {
	repo := &fakeUserRepo{}
	uc := usecase.NewUserUseCase(repo)

	require.NoError(t, uc.EnsureBootstrapAdmin(context.Background(), "admin", "admin-pass-1", zerolog.Nop()))
	require.Len(t, repo.users, 1)
	assert.True(t, repo.users[0].IsStaff)

	require.NoError(t, uc.EnsureBootstrapAdmin(context.Background(), "otro", "admin-pass-2", zerolog.Nop()))
	assert.Len(t, repo.users, 1)
}

// ─────────────────────────────────────────────────────────────────────────────
// Insumos

func TestItemUseCase_UpdateNoTocaStock(t *testing.T) {
	repo := &fakeItemRepo{items: map[int64]*entity.Item{5: {ID: 5, Name: "Gasas", TotalStock: 30, CriticalThreshold: 10}}}
	uc := usecase.NewItemUseCase(repo)
	threshold := 40

	out, err := uc.Update(context.Background(), 5, dto.UpdateItemRequest{CriticalThreshold: &threshold})
	require.NoError(t, err)
	assert.Equal(t, 40, out.CriticalThreshold)
	assert.Equal(t, 30, out.TotalStock)
	assert.True(t, out.IsCritical)
	assert.Equal(t, "Gasas", repo.saved.Name)
}

func TestItemUseCase_UpdateNoExiste(t *testing.T) {
	uc := usecase.NewItemUseCase(&fakeItemRepo{items: map[int64]*entity.Item{}})
	_, err := uc.Update(context.Background(), 9, dto.UpdateItemRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemUseCase_CreateCodigoVacioEsNulo(t *testing.T) {
	repo := &fakeItemRepo{}
	uc := usecase.NewItemUseCase(repo)
	blank := "  "

	_, err := uc.Create(context.Background(), dto.CreateItemRequest{Name: " Alcohol 70% ", ProductCode: &blank, CriticalThreshold: 5})
	require.NoError(t, err)
	assert.Nil(t, repo.saved.ProductCode)
	assert.Equal(t, "Alcohol 70%", repo.saved.Name)
	assert.Zero(t, repo.saved.TotalStock)
}

// ─────────────────────────────────────────────────────────────────────────────
// Reportes

func TestReportUseCase_TraduceFiltros(t *testing.T) {
	repo := &fakeReportRepo{total: 1, rows: []*entity.Movement{{ID: 3, Type: entity.MovementTypeExit, DocumentNumber: "SAL-2025-00003"}}}
	uc := usecase.NewReportUseCase(repo)

	out, err := uc.Movements(context.Background(), dto.MovementReportQuery{
		From: "2025-01-01", To: "2025-01-31", Type: "Salida", ItemID: 4, UserID: 2,
	})
	require.NoError(t, err)
	require.NotNil(t, repo.got.From)
	assert.Equal(t, "2025-01-31", repo.got.To.Format("2006-01-02"))
	assert.Equal(t, "Salida", repo.got.Type)
	assert.Equal(t, int64(4), *repo.got.ItemID)
	assert.Nil(t, repo.got.ServiceID)
	assert.Equal(t, int64(2), *repo.got.UserID)
	assert.Equal(t, 20, repo.got.Limit)
	assert.Equal(t, 1, out.Page.Total)
	assert.Equal(t, "SAL-2025-00003", out.Items[0].DocumentNumber)
}

func TestReportUseCase_FiltrosInvalidos(t *testing.T) {
	uc := usecase.NewReportUseCase(&fakeReportRepo{})

	_, err := uc.Movements(context.Background(), dto.MovementReportQuery{From: "2025-02-01", To: "2025-01-01", Type: "Ajuste"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Issues, 2)
}
