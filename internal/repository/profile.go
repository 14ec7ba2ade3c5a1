// Package repository 提供用户档案仓库（PostgreSQL）
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"vital-coach/internal/models"
)

// ErrUserExists 用户名已被注册
var ErrUserExists = errors.New("username already exists")

// ErrUserNotFound 用户不存在
var ErrUserNotFound = errors.New("user not found")

// ErrInvalidCredentials 用户名或密码错误
var ErrInvalidCredentials = errors.New("invalid credentials")

// ProfileRepository 用户档案仓库（users 表：username 主键 + bcrypt 密码 + profile JSONB）
//
// 核心只接收/返回 Profile 副本，持久化生命周期在这一层终结。
type ProfileRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProfileRepository 创建档案仓库
func NewProfileRepository(db *sql.DB, logger *zap.Logger) *ProfileRepository {
	return &ProfileRepository{
		db:     db,
		logger: logger,
	}
}

// Register 注册新用户（密码 bcrypt 加盐散列）
func (r *ProfileRepository) Register(ctx context.Context, username, password string, profile *models.Profile) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}

	var exists string
	err := r.db.QueryRowContext(ctx,
		`SELECT username FROM users WHERE username = $1`, username,
	).Scan(&exists)
	if err == nil {
		return ErrUserExists
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to check username: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	profileJSON := []byte("{}")
	if profile != nil {
		profileJSON, err = json.Marshal(profile)
		if err != nil {
			return fmt.Errorf("failed to marshal profile: %w", err)
		}
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (username, password, profile) VALUES ($1, $2, $3)`,
		username, string(hashed), profileJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}

	r.logger.Info("User registered", zap.String("username", username))
	return nil
}

// Authenticate 校验用户名密码，成功时返回档案副本
func (r *ProfileRepository) Authenticate(ctx context.Context, username, password string) (*models.Profile, error) {
	var storedHash string
	var profileJSON []byte

	err := r.db.QueryRowContext(ctx,
		`SELECT password, profile FROM users WHERE username = $1`, username,
	).Scan(&storedHash, &profileJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return unmarshalProfile(profileJSON)
}

// GetProfile 读取档案副本
func (r *ProfileRepository) GetProfile(ctx context.Context, username string) (*models.Profile, error) {
	var profileJSON []byte

	err := r.db.QueryRowContext(ctx,
		`SELECT profile FROM users WHERE username = $1`, username,
	).Scan(&profileJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return unmarshalProfile(profileJSON)
}

// UpdateProfile 整体覆盖写入档案
func (r *ProfileRepository) UpdateProfile(ctx context.Context, username string, profile *models.Profile) error {
	if profile == nil {
		return fmt.Errorf("profile is required")
	}

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET profile = $1 WHERE username = $2`,
		profileJSON, username,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// unmarshalProfile JSONB → Profile（空值返回空档案）
func unmarshalProfile(data []byte) (*models.Profile, error) {
	profile := &models.Profile{}
	if len(data) == 0 {
		return profile, nil
	}
	if err := json.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return profile, nil
}
