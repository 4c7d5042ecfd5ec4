package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"issue-analyze-service/models"
	"issue-analyze-service/taxonomy"
)

// Common admin store errors checked by the HTTP layer.
var (
	ErrAdminExists       = errors.New("admin already exists")
	ErrAdminNotFound     = errors.New("admin not found")
	ErrBadCredentials    = errors.New("invalid email or password")
	ErrUnknownDepartment = errors.New("unknown department")
)

// AdminService handles administrator account operations
type AdminService struct {
	db            *sql.DB
	jwtSecret     []byte
	tokenDuration time.Duration
}

// NewAdminService creates a new admin service instance
func NewAdminService(db *sql.DB, jwtSecret string, tokenDuration time.Duration) *AdminService {
	return &AdminService{
		db:            db,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: tokenDuration,
	}
}

// CreateAdmin creates a new department administrator
func (s *AdminService) CreateAdmin(ctx context.Context, req models.CreateAdminRequest) (*models.Admin, error) {
	dept, ok := taxonomy.ParseDepartment(req.Department)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDepartment, req.Department)
	}

	exists, err := s.adminExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check admin existence: %w", err)
	}
	if exists {
		return nil, ErrAdminExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	adminID := uuid.NewString()
	query := `
		INSERT INTO admins (id, email, password_hash, name, department, role, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query,
		adminID, req.Email, string(passwordHash), req.Name, string(dept), req.Role, req.CreatedBy); err != nil {
		return nil, fmt.Errorf("failed to insert admin: %w", err)
	}

	return s.GetAdmin(ctx, adminID)
}

// UpdateAdmin updates an existing administrator. Nil fields are left
// unchanged; a non-nil password is re-hashed.
func (s *AdminService) UpdateAdmin(ctx context.Context, req models.UpdateAdminRequest) (*models.Admin, error) {
	current, err := s.GetAdmin(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	email := current.Email
	if req.Email != nil {
		email = *req.Email
	}
	name := current.Name
	if req.Name != nil {
		name = *req.Name
	}
	department := current.Department
	if req.Department != nil {
		dept, ok := taxonomy.ParseDepartment(*req.Department)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDepartment, *req.Department)
		}
		department = string(dept)
	}
	role := current.Role
	if req.Role != nil {
		role = *req.Role
	}

	if req.Password != nil {
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		query := `UPDATE admins SET email = ?, password_hash = ?, name = ?, department = ?, role = ? WHERE id = ?`
		if _, err := s.db.ExecContext(ctx, query, email, string(passwordHash), name, department, role, req.ID); err != nil {
			return nil, fmt.Errorf("failed to update admin: %w", err)
		}
	} else {
		query := `UPDATE admins SET email = ?, name = ?, department = ?, role = ? WHERE id = ?`
		if _, err := s.db.ExecContext(ctx, query, email, name, department, role, req.ID); err != nil {
			return nil, fmt.Errorf("failed to update admin: %w", err)
		}
	}

	return s.GetAdmin(ctx, req.ID)
}

// DeleteAdmin removes an administrator account
func (s *AdminService) DeleteAdmin(ctx context.Context, adminID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM admins WHERE id = ?`, adminID)
	if err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrAdminNotFound
	}
	return nil
}

// GetAdmin fetches one administrator by id
func (s *AdminService) GetAdmin(ctx context.Context, adminID string) (*models.Admin, error) {
	query := `
		SELECT id, email, name, department, role, created_by, created_at, updated_at
		FROM admins WHERE id = ?`

	var admin models.Admin
	err := s.db.QueryRowContext(ctx, query, adminID).Scan(
		&admin.ID, &admin.Email, &admin.Name, &admin.Department,
		&admin.Role, &admin.CreatedBy, &admin.CreatedAt, &admin.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &admin, nil
}

// ListAdmins returns all administrator accounts ordered by creation time
func (s *AdminService) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	query := `
		SELECT id, email, name, department, role, created_by, created_at, updated_at
		FROM admins ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	defer rows.Close()

	var admins []models.Admin
	for rows.Next() {
		var admin models.Admin
		if err := rows.Scan(
			&admin.ID, &admin.Email, &admin.Name, &admin.Department,
			&admin.Role, &admin.CreatedBy, &admin.CreatedAt, &admin.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan admin: %w", err)
		}
		admins = append(admins, admin)
	}
	return admins, rows.Err()
}

// Login verifies credentials and issues a signed JWT
func (s *AdminService) Login(ctx context.Context, req models.LoginRequest) (*models.TokenResponse, error) {
	query := `
		SELECT id, email, password_hash, name, department, role, created_by, created_at, updated_at
		FROM admins WHERE email = ?`

	var admin models.Admin
	var passwordHash string
	err := s.db.QueryRowContext(ctx, query, req.Email).Scan(
		&admin.ID, &admin.Email, &passwordHash, &admin.Name, &admin.Department,
		&admin.Role, &admin.CreatedBy, &admin.CreatedAt, &admin.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)) != nil {
		return nil, ErrBadCredentials
	}

	token, err := s.generateToken(admin.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(s.tokenDuration.Seconds()),
		Admin:     &admin,
	}, nil
}

// ValidateToken parses a JWT and returns the admin id claim
func (s *AdminService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token claims")
	}

	adminID, ok := claims["sub"].(string)
	if !ok || adminID == "" {
		return "", errors.New("missing subject claim")
	}
	return adminID, nil
}

func (s *AdminService) generateToken(adminID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": adminID,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AdminService) adminExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins WHERE email = ?`, email).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
