// Package memory is an in-process implementation of the repository
// interfaces. Each unit of work runs against a private copy of the data that
// replaces the shared copy only when the work returns nil, so rollback
// behaves like the database. Units of work are serialized.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"printshop-orders/internal/model"
	"printshop-orders/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type state struct {
	branches       map[uuid.UUID]model.Branch
	customers      map[uuid.UUID]model.Customer
	params         map[uuid.UUID]model.Param
	branchProducts map[uuid.UUID]model.BranchProduct
	orders         map[uuid.UUID]model.Order
	items          map[uuid.UUID]model.OrderItem
	itemOrder      []uuid.UUID
	steps          map[uuid.UUID]model.OrderItemStep
	options        map[uuid.UUID]model.OrderItemOption
	itemInserts    int
}

func newState() *state {
	return &state{
		branches:       map[uuid.UUID]model.Branch{},
		customers:      map[uuid.UUID]model.Customer{},
		params:         map[uuid.UUID]model.Param{},
		branchProducts: map[uuid.UUID]model.BranchProduct{},
		orders:         map[uuid.UUID]model.Order{},
		items:          map[uuid.UUID]model.OrderItem{},
		steps:          map[uuid.UUID]model.OrderItemStep{},
		options:        map[uuid.UUID]model.OrderItemOption{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.branches {
		c.branches[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.params {
		c.params[k] = v
	}
	for k, v := range s.branchProducts {
		c.branchProducts[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	c.itemOrder = append([]uuid.UUID(nil), s.itemOrder...)
	for k, v := range s.steps {
		c.steps[k] = v
	}
	for k, v := range s.options {
		c.options[k] = v
	}
	c.itemInserts = s.itemInserts
	return c
}

// Store implements repository.UnitOfWork.
type Store struct {
	mu    sync.Mutex
	state *state

	failItemInsert error
	failAfter      int
}

var _ repository.UnitOfWork = (*Store)(nil)

func NewStore() *Store {
	return &Store{state: newState()}
}

func (s *Store) Do(ctx context.Context, fn func(repos repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.state.clone()
	tx := &txRepos{store: s, st: work}
	if err := fn(repository.Repositories{Catalog: tx, Directory: tx, Orders: tx}); err != nil {
		return err
	}
	s.state = work
	return nil
}

// FailItemInsert makes CreateItem return err once `after` items have been
// inserted successfully.
func (s *Store) FailItemInsert(err error, after int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failItemInsert = err
	s.failAfter = after
}

func newID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}

func (s *Store) AddBranch(b model.Branch) model.Branch {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = newID(b.ID)
	s.state.branches[b.ID] = b
	return b
}

func (s *Store) AddCustomer(c model.Customer) model.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = newID(c.ID)
	s.state.customers[c.ID] = c
	return c
}

func (s *Store) AddParam(p model.Param) model.Param {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = newID(p.ID)
	s.state.params[p.ID] = p
	return p
}

// AddBranchProduct stores a fully populated pricing aggregate. ParamPrices
// get their Param filled in from previously added params.
func (s *Store) AddBranchProduct(bp model.BranchProduct) model.BranchProduct {
	s.mu.Lock()
	defer s.mu.Unlock()
	bp.ID = newID(bp.ID)
	bp.Product.ID = newID(bp.Product.ID)
	if bp.ProductID == uuid.Nil {
		bp.ProductID = bp.Product.ID
	}
	for i := range bp.ParamPrices {
		if p, ok := s.state.params[bp.ParamPrices[i].ParamID]; ok {
			bp.ParamPrices[i].Param = p
		}
	}
	s.state.branchProducts[bp.ID] = bp
	return bp
}

// Order returns the committed order with items, steps and options.
func (s *Store) Order(id uuid.UUID) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txRepos{store: s, st: s.state}).FindOrder(id)
}

func (s *Store) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.orders)
}

func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.items)
}

// txRepos serves every repository interface from one working copy.
type txRepos struct {
	store *Store
	st    *state
}

func (r *txRepos) FindBranchProduct(branchID, productID uuid.UUID) (*model.BranchProduct, error) {
	for _, bp := range r.st.branchProducts {
		if bp.BranchID == branchID && bp.ProductID == productID {
			found := bp
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *txRepos) FindParamsByIDs(ids []uuid.UUID) ([]model.Param, error) {
	var params []model.Param
	seen := map[uuid.UUID]bool{}
	for _, id := range ids {
		if p, ok := r.st.params[id]; ok && !seen[id] {
			seen[id] = true
			params = append(params, p)
		}
	}
	return params, nil
}

func (r *txRepos) FindBranch(id uuid.UUID) (*model.Branch, error) {
	b, ok := r.st.branches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &b, nil
}

func (r *txRepos) FindCustomer(id uuid.UUID) (*model.Customer, error) {
	c, ok := r.st.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *txRepos) CreateOrder(order *model.Order) error {
	order.ID = newID(order.ID)
	now := time.Now()
	order.CreatedAt, order.UpdatedAt = now, now
	header := *order
	header.Items = nil
	header.Customer = nil
	r.st.orders[order.ID] = header
	return nil
}

func (r *txRepos) CreateItem(item *model.OrderItem) error {
	if r.store.failItemInsert != nil && r.st.itemInserts >= r.store.failAfter {
		return r.store.failItemInsert
	}
	if _, ok := r.st.orders[item.OrderID]; !ok {
		return errors.New("memory: order_items.order_id violates foreign key")
	}
	item.ID = newID(item.ID)
	now := time.Now()
	item.CreatedAt, item.UpdatedAt = now, now
	for i := range item.Steps {
		item.Steps[i].ID = newID(item.Steps[i].ID)
		item.Steps[i].OrderItemID = item.ID
		r.st.steps[item.Steps[i].ID] = item.Steps[i]
	}
	for i := range item.Options {
		item.Options[i].ID = newID(item.Options[i].ID)
		item.Options[i].OrderItemID = item.ID
		item.Options[i].CreatedAt = now.Add(time.Duration(i))
		r.st.options[item.Options[i].ID] = item.Options[i]
	}
	row := *item
	row.Steps, row.Options = nil, nil
	r.st.items[item.ID] = row
	r.st.itemOrder = append(r.st.itemOrder, item.ID)
	r.st.itemInserts++
	return nil
}

func (r *txRepos) FindOrder(id uuid.UUID) (*model.Order, error) {
	o, ok := r.st.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if c, ok := r.st.customers[o.CustomerID]; ok {
		o.Customer = &c
	}
	items, _ := r.FindItemsByOrder(id)
	for i := range items {
		items[i].Steps = r.itemSteps(items[i].ID)
	}
	o.Items = items
	return &o, nil
}

func (r *txRepos) LockOrder(id uuid.UUID) (*model.Order, error) {
	o, ok := r.st.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &o, nil
}

func (r *txRepos) FindItem(id uuid.UUID) (*model.OrderItem, error) {
	item, ok := r.st.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	item.Steps = r.itemSteps(id)
	item.Options = r.itemOptions(id)
	return &item, nil
}

func (r *txRepos) FindItemsByOrder(orderID uuid.UUID) ([]model.OrderItem, error) {
	var items []model.OrderItem
	for _, id := range r.st.itemOrder {
		item := r.st.items[id]
		if item.OrderID == orderID {
			item.Options = r.itemOptions(id)
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *txRepos) ItemReadiness(orderID uuid.UUID) ([]bool, error) {
	var flags []bool
	for _, id := range r.st.itemOrder {
		if item := r.st.items[id]; item.OrderID == orderID {
			flags = append(flags, item.IsReady)
		}
	}
	return flags, nil
}

func (r *txRepos) SaveSteps(steps []model.OrderItemStep) error {
	for _, s := range steps {
		existing, ok := r.st.steps[s.ID]
		if !ok {
			return gorm.ErrRecordNotFound
		}
		existing.Status = s.Status
		existing.CompletedAt = s.CompletedAt
		r.st.steps[s.ID] = existing
	}
	return nil
}

func (r *txRepos) UpdateItemProgress(item *model.OrderItem) error {
	existing, ok := r.st.items[item.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	existing.CurrentStepOrder = item.CurrentStepOrder
	existing.IsReady = item.IsReady
	existing.UpdatedBy = item.UpdatedBy
	r.st.items[item.ID] = existing
	return nil
}

func (r *txRepos) UpdateItemPricing(item *model.OrderItem) error {
	existing, ok := r.st.items[item.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	existing.Quantity = item.Quantity
	existing.VariantID = item.VariantID
	existing.UnitPrice = item.UnitPrice
	existing.Subtotal = item.Subtotal
	existing.AppliedThreshold = item.AppliedThreshold
	existing.PriceSource = item.PriceSource
	existing.ParamDelta = item.ParamDelta
	existing.UpdatedBy = item.UpdatedBy
	r.st.items[item.ID] = existing
	return nil
}

func (r *txRepos) UpdateOrderHeader(order *model.Order) error {
	existing, ok := r.st.orders[order.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	existing.PickupBranchID = order.PickupBranchID
	existing.ShippingType = order.ShippingType
	existing.PaymentMethod = order.PaymentMethod
	existing.Notes = order.Notes
	existing.UpdatedBy = order.UpdatedBy
	r.st.orders[order.ID] = existing
	return nil
}

func (r *txRepos) UpdateOrderTotal(id uuid.UUID, total decimal.Decimal) error {
	existing, ok := r.st.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	existing.Total = total
	r.st.orders[id] = existing
	return nil
}

func (r *txRepos) UpdateOrderStage(id uuid.UUID, stage model.OrderStage) error {
	existing, ok := r.st.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	existing.Stage = stage
	r.st.orders[id] = existing
	return nil
}

func (r *txRepos) MarkDelivered(id uuid.UUID, at time.Time, updatedBy string) error {
	existing, ok := r.st.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	existing.Stage = model.StageDelivered
	existing.DeliveredAt = &at
	existing.UpdatedBy = updatedBy
	r.st.orders[id] = existing
	return nil
}

func (r *txRepos) itemSteps(itemID uuid.UUID) []model.OrderItemStep {
	var steps []model.OrderItemStep
	for _, s := range r.st.steps {
		if s.OrderItemID == itemID {
			steps = append(steps, s)
		}
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].StepOrder < steps[j].StepOrder })
	return steps
}

func (r *txRepos) itemOptions(itemID uuid.UUID) []model.OrderItemOption {
	var opts []model.OrderItemOption
	for _, o := range r.st.options {
		if o.OrderItemID == itemID {
			opts = append(opts, o)
		}
	}
	sort.Slice(opts, func(i, j int) bool { return opts[i].CreatedAt.Before(opts[j].CreatedAt) })
	return opts
}
