package services

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fiskryeziu/hotdrop/entity"
	"github.com/fiskryeziu/hotdrop/repository"
)

// Notifier is the realtime side of the order store: the websocket router
// implements it. Both methods fire exactly once per committed change and
// never on a failed one.
type Notifier interface {
	OrderCreated(o *entity.Order)
	OrderStatusChanged(o *entity.Order)
}

type OrderService struct {
	DB       *gorm.DB
	Repo     *repository.OrderRepository
	Products *repository.ProductRepository
	Notifier Notifier

	log *zap.Logger
}

func NewOrderService(
	db *gorm.DB,
	repo *repository.OrderRepository,
	products *repository.ProductRepository,
	notifier Notifier,
	log *zap.Logger,
) *OrderService {
	return &OrderService{DB: db, Repo: repo, Products: products, Notifier: notifier, log: log}
}

// ----- DTOs from Controller -----

type OrderItemIn struct {
	ProductID uint `json:"productId" binding:"required"`
	Qty       int  `json:"qty" binding:"required,min=1"`
}

type CreateOrderReq struct {
	Items           []OrderItemIn `json:"items" binding:"required,min=1"`
	DeliveryAddress string        `json:"deliveryAddress" binding:"required"`
	DeliveryLat     *float64      `json:"deliveryLat"`
	DeliveryLng     *float64      `json:"deliveryLng"`
	Notes           string        `json:"notes"`
}

// Create prices the items server-side and writes the order and its rows
// in one transaction.
func (s *OrderService) Create(userID uint, req *CreateOrderReq) (*entity.Order, error) {
	type line struct {
		productID uint
		qty       int
		unitPrice int64
	}

	var subtotal int64
	lines := make([]line, 0, len(req.Items))
	for _, it := range req.Items {
		p, err := s.Products.GetBasics(it.ProductID)
		if err != nil {
			return nil, errors.New("product not found")
		}
		subtotal += p.Price * int64(it.Qty)
		lines = append(lines, line{productID: p.ID, qty: it.Qty, unitPrice: p.Price})
	}

	deliveryFee := int64(200)
	order := entity.Order{
		Subtotal:        subtotal,
		DeliveryFee:     deliveryFee,
		Total:           subtotal + deliveryFee,
		Status:          entity.StatusPending,
		UserID:          userID,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryLat:     req.DeliveryLat,
		DeliveryLng:     req.DeliveryLng,
		Notes:           req.Notes,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for _, l := range lines {
			item := entity.OrderItem{
				Qty:       l.qty,
				UnitPrice: l.unitPrice,
				Total:     l.unitPrice * int64(l.qty),
				OrderID:   order.ID,
				ProductID: l.productID,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order created", zap.Uint("orderId", order.ID), zap.Uint("userId", userID))
	s.Notifier.OrderCreated(&order)
	return &order, nil
}

func (s *OrderService) Detail(orderID, userID uint) (*entity.Order, error) {
	o, err := s.Repo.GetWithItems(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrNotFound
	}
	return o, nil
}

func (s *OrderService) ListForUser(userID uint) ([]entity.Order, error) {
	return s.Repo.ListByUser(userID, 50)
}

// UpdateStatus is the authoritative transition operation. Check order:
// status value, caller role, existence, legality, then the guarded
// update. Nothing is mutated or broadcast on any failure path.
func (s *OrderService) UpdateStatus(orderID uint, newStatus, callerRole string) (*entity.Order, error) {
	to, err := entity.ParseStatus(newStatus)
	if err != nil {
		return nil, ErrInvalidStatus
	}
	if callerRole != entity.RoleAdmin && callerRole != entity.RoleDelivery {
		return nil, ErrForbidden
	}

	o, err := s.Repo.Get(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !entity.CanTransition(o.Status, to) {
		return nil, ErrInvalidTransition
	}

	affected, err := s.Repo.UpdateStatusGuard(s.DB, o.ID, o.Status, to)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrConflict
	}

	o.Status = to
	s.log.Info("order status updated",
		zap.Uint("orderId", o.ID),
		zap.String("status", string(to)),
		zap.String("role", callerRole))
	s.Notifier.OrderStatusChanged(o)
	return o, nil
}

// ClaimDelivery assigns the calling driver to a ready order.
func (s *OrderService) ClaimDelivery(orderID, driverID uint, callerRole string) (*entity.Order, error) {
	if callerRole != entity.RoleDelivery {
		return nil, ErrForbidden
	}

	o, err := s.Repo.Get(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	affected, err := s.Repo.AssignDriverGuard(s.DB, o.ID, driverID)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrConflict
	}

	o.DriverID = &driverID
	s.log.Info("order claimed", zap.Uint("orderId", o.ID), zap.Uint("driverId", driverID))
	return o, nil
}

// ListDeliverable feeds the delivery dashboard.
func (s *OrderService) ListDeliverable() ([]entity.Order, error) {
	return s.Repo.ListByStatuses([]entity.Status{entity.StatusReady, entity.StatusOutForDelivery})
}
