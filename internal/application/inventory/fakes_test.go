package inventory_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/gestinvlab-api/internal/domain"
	"github.com/jhoicas/gestinvlab-api/internal/domain/entity"
	"github.com/jhoicas/gestinvlab-api/internal/domain/repository"
)

// memStore almacén en memoria con transacciones serializadas: Run toma txMu durante toda la
// función, guarda una copia del estado y la restaura si fn falla.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	items     map[int64]*entity.Item
	batches   map[int64]*entity.Batch
	services  map[int64]*entity.Service
	movements map[int64]*entity.Movement
	lines     []entity.MovementLine

	nextBatch, nextMovement, nextLine int64

	clock  time.Time
	writes int
	failOn map[string]error
	txRuns int
}

func newMemStore() *memStore {
	return &memStore{
		items:     map[int64]*entity.Item{},
		batches:   map[int64]*entity.Batch{},
		services:  map[int64]*entity.Service{},
		movements: map[int64]*entity.Movement{},
		clock:     time.Date(2025, time.June, 10, 9, 30, 0, 0, time.UTC),
		failOn:    map[string]error{},
	}
}

func (s *memStore) addItem(id int64, name string, threshold int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = &entity.Item{ID: id, Name: name, CriticalThreshold: threshold}
}

func (s *memStore) addService(id int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[id] = &entity.Service{ID: id, Name: name}
}

// seedBatch crea un lote con stock ya consistente con el total del insumo.
func (s *memStore) seedBatch(itemID int64, lot string, stock int, expiry *time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextBatch++
	s.batches[s.nextBatch] = &entity.Batch{ID: s.nextBatch, ItemID: itemID, LotNumber: lot, Stock: stock, ExpiryDate: expiry, ReceivedDate: s.clock}
	s.items[itemID].TotalStock += stock
	return s.nextBatch
}

func (s *memStore) fail(op string) error {
	if err, ok := s.failOn[op]; ok {
		return err
	}
	return nil
}

type snapshot struct {
	items     map[int64]entity.Item
	batches   map[int64]entity.Batch
	movements map[int64]entity.Movement
	lines     []entity.MovementLine
	nextBatch, nextMovement, nextLine int64
}

func (s *memStore) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		items:        map[int64]entity.Item{},
		batches:      map[int64]entity.Batch{},
		movements:    map[int64]entity.Movement{},
		lines:        append([]entity.MovementLine(nil), s.lines...),
		nextBatch:    s.nextBatch,
		nextMovement: s.nextMovement,
		nextLine:     s.nextLine,
	}
	for id, it := range s.items {
		snap.items[id] = *it
	}
	for id, b := range s.batches {
		snap.batches[id] = *b
	}
	for id, m := range s.movements {
		snap.movements[id] = *m
	}
	return snap
}

func (s *memStore) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = map[int64]*entity.Item{}
	for id, it := range snap.items {
		it := it
		s.items[id] = &it
	}
	s.batches = map[int64]*entity.Batch{}
	for id, b := range snap.batches {
		b := b
		s.batches[id] = &b
	}
	s.movements = map[int64]*entity.Movement{}
	for id, m := range snap.movements {
		m := m
		s.movements[id] = &m
	}
	s.lines = snap.lines
	s.nextBatch, s.nextMovement, s.nextLine = snap.nextBatch, snap.nextMovement, snap.nextLine
}

// batchSum suma independiente del stock de lotes por insumo.
func (s *memStore) batchSum(itemID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, b := range s.batches {
		if b.ItemID == itemID {
			total += b.Stock
		}
	}
	return total
}

func (s *memStore) itemTotal(itemID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[itemID].TotalStock
}

func (s *memStore) batchStock(batchID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batches[batchID].Stock
}

func (s *memStore) counts() (movements, lines, batches int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements), len(s.lines), len(s.batches)
}

// ─────────────────────────────────────────────────────────────────────────────
// TxRunner

type memTxRunner struct{ s *memStore }

func (r memTxRunner) Run(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	batchRepo repository.BatchRepository,
	itemRepo repository.ItemRepository,
) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	r.s.mu.Lock()
	r.s.txRuns++
	r.s.mu.Unlock()

	if err := r.s.fail("begin"); err != nil {
		return err
	}
	snap := r.s.snapshot()
	if err := fn(memMovementRepo{r.s}, memBatchRepo{r.s}, memItemRepo{r.s}); err != nil {
		r.s.restore(snap)
		return err
	}
	if err := r.s.fail("commit"); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Items

type memItemRepo struct{ s *memStore }

var _ repository.ItemRepository = memItemRepo{}

func (r memItemRepo) Create(_ context.Context, item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.items[item.ID] = item
	return nil
}

func (r memItemRepo) GetByID(_ context.Context, id int64) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r memItemRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("item.exists"); err != nil {
		return false, err
	}
	_, ok := r.s.items[id]
	return ok, nil
}

func (r memItemRepo) UpdateCatalog(_ context.Context, item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	it.Name, it.ProductCode, it.CriticalThreshold = item.Name, item.ProductCode, item.CriticalThreshold
	return nil
}

func (r memItemRepo) List(_ context.Context) ([]*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Item, 0, len(r.s.items))
	for _, it := range r.s.items {
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memItemRepo) LockForUpdate(_ context.Context, ids []int64) (map[int64]*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("item.lock"); err != nil {
		return nil, err
	}
	out := make(map[int64]*entity.Item, len(ids))
	for _, id := range ids {
		if it, ok := r.s.items[id]; ok {
			cp := *it
			out[id] = &cp
		}
	}
	return out, nil
}

func (r memItemRepo) ApplyDelta(_ context.Context, id int64, delta int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.writes++
	if err := r.s.fail("item.delta"); err != nil {
		return 0, err
	}
	it, ok := r.s.items[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if it.TotalStock+delta < 0 {
		return 0, domain.ErrInsufficientStock
	}
	it.TotalStock += delta
	return it.TotalStock, nil
}

func (r memItemRepo) drifts() []entity.StockDrift {
	sums := map[int64]int{}
	for _, b := range r.s.batches {
		sums[b.ItemID] += b.Stock
	}
	var out []entity.StockDrift
	for id, it := range r.s.items {
		if it.TotalStock != sums[id] {
			out = append(out, entity.StockDrift{ItemID: id, ItemName: it.Name, Recorded: it.TotalStock, Computed: sums[id]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}

func (r memItemRepo) ListDrift(_ context.Context) ([]entity.StockDrift, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.drifts(), nil
}

func (r memItemRepo) RepairTotals(_ context.Context) ([]entity.StockDrift, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.drifts()
	for _, d := range out {
		r.s.items[d.ItemID].TotalStock = d.Computed
	}
	return out, nil
}

func (r memItemRepo) ListCritical(_ context.Context) ([]repository.CriticalItem, error) {
	return nil, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Batches

type memBatchRepo struct{ s *memStore }

var _ repository.BatchRepository = memBatchRepo{}

func (r memBatchRepo) withItem(b *entity.Batch) *entity.Batch {
	cp := *b
	if it, ok := r.s.items[b.ItemID]; ok {
		cp.ItemName = it.Name
		cp.ItemCode = it.ProductCode
	}
	return &cp
}

func (r memBatchRepo) GetOrCreate(_ context.Context, itemID int64, lotNumber string, expiry *time.Time) (*entity.Batch, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.writes++
	if err := r.s.fail("batch.getOrCreate"); err != nil {
		return nil, false, err
	}
	for _, b := range r.s.batches {
		if b.ItemID == itemID && b.LotNumber == lotNumber {
			if expiry != nil {
				e := *expiry
				b.ExpiryDate = &e
			}
			return r.withItem(b), false, nil
		}
	}
	r.s.nextBatch++
	b := &entity.Batch{ID: r.s.nextBatch, ItemID: itemID, LotNumber: lotNumber, ExpiryDate: expiry, ReceivedDate: r.s.clock}
	r.s.batches[b.ID] = b
	return r.withItem(b), true, nil
}

func (r memBatchRepo) GetByID(_ context.Context, id int64) (*entity.Batch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.batches[id]
	if !ok {
		return nil, nil
	}
	return r.withItem(b), nil
}

func (r memBatchRepo) ItemIDs(_ context.Context, ids []int64) (map[int64]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[int64]int64, len(ids))
	for _, id := range ids {
		if b, ok := r.s.batches[id]; ok {
			out[id] = b.ItemID
		}
	}
	return out, nil
}

func (r memBatchRepo) LockForUpdate(_ context.Context, ids []int64) (map[int64]*entity.Batch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("batch.lock"); err != nil {
		return nil, err
	}
	out := make(map[int64]*entity.Batch, len(ids))
	for _, id := range ids {
		if b, ok := r.s.batches[id]; ok {
			out[id] = r.withItem(b)
		}
	}
	return out, nil
}

func (r memBatchRepo) ApplyDelta(_ context.Context, id int64, delta int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.writes++
	if err := r.s.fail("batch.delta"); err != nil {
		return 0, err
	}
	b, ok := r.s.batches[id]
	if !ok || b.Stock+delta < 0 {
		return 0, domain.ErrInsufficientStock
	}
	b.Stock += delta
	return b.Stock, nil
}

func (r memBatchRepo) ListAvailable(_ context.Context, itemID int64) ([]*entity.Batch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Batch
	for _, b := range r.s.batches {
		if b.ItemID == itemID && b.Stock > 0 {
			out = append(out, r.withItem(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ExpiryDate == nil || b.ExpiryDate == nil {
			if a.ExpiryDate == nil && b.ExpiryDate == nil {
				return a.ID < b.ID
			}
			return a.ExpiryDate != nil
		}
		if !a.ExpiryDate.Equal(*b.ExpiryDate) {
			return a.ExpiryDate.Before(*b.ExpiryDate)
		}
		return a.ID < b.ID
	})
	return out, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Movements

type memMovementRepo struct{ s *memStore }

var _ repository.MovementRepository = memMovementRepo{}

func (r memMovementRepo) CreateHeader(_ context.Context, m *entity.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.writes++
	if err := r.s.fail("movement.header"); err != nil {
		return err
	}
	r.s.nextMovement++
	m.ID = r.s.nextMovement
	m.CreatedAt = r.s.clock
	stored := *m
	stored.Lines = nil
	r.s.movements[m.ID] = &stored
	return nil
}

func (r memMovementRepo) SetDocumentNumber(_ context.Context, movementID int64, documentNumber string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.writes++
	if err := r.s.fail("movement.document"); err != nil {
		return err
	}
	m, ok := r.s.movements[movementID]
	if !ok || m.DocumentNumber != "" {
		return domain.ErrConflict
	}
	m.DocumentNumber = documentNumber
	return nil
}

func (r memMovementRepo) CreateLine(_ context.Context, line *entity.MovementLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.writes++
	if err := r.s.fail("movement.line"); err != nil {
		return err
	}
	r.s.nextLine++
	line.ID = r.s.nextLine
	r.s.lines = append(r.s.lines, *line)
	return nil
}

func (r memMovementRepo) GetByID(_ context.Context, id int64) (*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.movements[id]
	if !ok {
		return nil, nil
	}
	out := *m
	for _, l := range r.s.lines {
		if l.MovementID != id {
			continue
		}
		b := r.s.batches[l.BatchID]
		l.ItemID = b.ItemID
		l.ItemName = r.s.items[b.ItemID].Name
		l.LotNumber = b.LotNumber
		out.Lines = append(out.Lines, l)
	}
	return &out, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Services

type memServiceRepo struct{ s *memStore }

var _ repository.ServiceRepository = memServiceRepo{}

func (r memServiceRepo) Create(_ context.Context, svc *entity.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.services[svc.ID] = svc
	return nil
}

func (r memServiceRepo) GetByID(_ context.Context, id int64) (*entity.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("service.get"); err != nil {
		return nil, err
	}
	svc, ok := r.s.services[id]
	if !ok {
		return nil, nil
	}
	cp := *svc
	return &cp, nil
}

func (r memServiceRepo) Exists(ctx context.Context, id int64) (bool, error) {
	svc, err := r.GetByID(ctx, id)
	return svc != nil, err
}

func (r memServiceRepo) List(_ context.Context) ([]*entity.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Service, 0, len(r.s.services))
	for _, svc := range r.s.services {
		cp := *svc
		out = append(out, &cp)
	}
	return out, nil
}
