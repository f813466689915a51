package repository

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"freelance_chat/internal/domain"
	"freelance_chat/pkg/errors"
	"freelance_chat/pkg/logger"
)

// OrderRepository читает заказы и заявки, принадлежащие orders-сервису.
// Ядро чата ничего в этих таблицах не меняет.
type OrderRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListApplications(ctx context.Context, orderID uuid.UUID) ([]domain.OrderApplication, error)
	ListApplicants(ctx context.Context, orderID uuid.UUID) ([]domain.Applicant, error)
	OrdersAsCustomer(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	OrdersAsFreelancer(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
}

type orderRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewOrderRepository(db *pgxpool.Pool, log logger.Logger) OrderRepository {
	return &orderRepository{db: db, log: log}
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT id, title, customer_id, freelancer_id, status, created_at
		FROM orders
		WHERE id = $1
	`

	order := &domain.Order{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&order.ID, &order.Title, &order.CustomerID, &order.FreelancerID,
		&order.Status, &order.CreatedAt,
	)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrOrderNotFound
		}
		r.log.Error("Failed to get order", "error", err, "order_id", id)
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) ListApplications(ctx context.Context, orderID uuid.UUID) ([]domain.OrderApplication, error) {
	query := `
		SELECT id, order_id, freelancer_id, created_at
		FROM order_applications
		WHERE order_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		r.log.Error("Failed to list applications", "error", err, "order_id", orderID)
		return nil, err
	}
	defer rows.Close()

	var applications []domain.OrderApplication
	for rows.Next() {
		var app domain.OrderApplication
		if err := rows.Scan(&app.ID, &app.OrderID, &app.FreelancerID, &app.CreatedAt); err != nil {
			return nil, err
		}
		applications = append(applications, app)
	}

	return applications, rows.Err()
}

// ListApplicants возвращает фрилансеров с заявками вместе с профилем -
// то, что заказчик видит при выборе собеседника.
func (r *orderRepository) ListApplicants(ctx context.Context, orderID uuid.UUID) ([]domain.Applicant, error) {
	query := `
		SELECT u.id, u.name, u.email, u.avatar_url
		FROM order_applications a
		JOIN users u ON u.id = a.freelancer_id
		WHERE a.order_id = $1
		ORDER BY a.created_at ASC
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		r.log.Error("Failed to list applicants", "error", err, "order_id", orderID)
		return nil, err
	}
	defer rows.Close()

	var applicants []domain.Applicant
	for rows.Next() {
		var a domain.Applicant
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.AvatarURL); err != nil {
			return nil, err
		}
		applicants = append(applicants, a)
	}

	return applicants, rows.Err()
}

func (r *orderRepository) OrdersAsCustomer(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	query := `
		SELECT id, title, customer_id, freelancer_id, status, created_at
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to list customer orders", "error", err, "user_id", userID)
		return nil, err
	}
	defer rows.Close()

	return scanOrders(rows)
}

// OrdersAsFreelancer возвращает заказы, где пользователь назначен
// исполнителем либо подал заявку.
func (r *orderRepository) OrdersAsFreelancer(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	query := `
		SELECT DISTINCT o.id, o.title, o.customer_id, o.freelancer_id, o.status, o.created_at
		FROM orders o
		LEFT JOIN order_applications a ON a.order_id = o.id
		WHERE o.freelancer_id = $1 OR a.freelancer_id = $1
		ORDER BY o.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to list freelancer orders", "error", err, "user_id", userID)
		return nil, err
	}
	defer rows.Close()

	return scanOrders(rows)
}

func scanOrders(rows pgx.Rows) ([]*domain.Order, error) {
	var orders []*domain.Order
	for rows.Next() {
		order := &domain.Order{}
		err := rows.Scan(
			&order.ID, &order.Title, &order.CustomerID, &order.FreelancerID,
			&order.Status, &order.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
