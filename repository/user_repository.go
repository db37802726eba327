package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/albertle/networkx/matching"
	"github.com/albertle/networkx/models"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// userRow is the persistence shape of a user. Role-specific attributes
// are nullable columns; the domain model's tagged variant is rebuilt
// from Role when reading.
type userRow struct {
	Username     string         `gorm:"primaryKey;size:60"`
	Role         string         `gorm:"size:10;not null;index:idx_users_role"`
	Email        string         `gorm:"size:255;not null"`
	PasswordHash string         `gorm:"size:255;not null"`
	Industry     string         `gorm:"size:120"`
	Tags         pq.StringArray `gorm:"type:text[]"`

	// Creator columns
	ContentType            *string        `gorm:"size:20"`
	AudienceSize           *int64         ``
	ContentStyle           *string        `gorm:"size:255"`
	PreviousCollaborations pq.StringArray `gorm:"type:text[]"`

	// Sponsor columns
	CompanyName    *string        `gorm:"size:120"`
	CampaignBudget *float64       ``
	TargetAudience *string        `gorm:"size:255"`
	CampaignGoals  pq.StringArray `gorm:"type:text[]"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')"`
}

func (userRow) TableName() string { return "users" }

// UserRepositoryImpl implements UserRepository on PostgreSQL via gorm
type UserRepositoryImpl struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

// AutoMigrate creates or updates the users table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&userRow{})
}

func (r *UserRepositoryImpl) ByUsername(ctx context.Context, username string) (*models.User, error) {
	db := getDB(ctx, r.db)

	var row userRow
	err := db.WithContext(ctx).First(&row, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user %q: %w", username, err)
	}
	return fromRow(&row), nil
}

func (r *UserRepositoryImpl) Save(ctx context.Context, user *models.User) error {
	db := getDB(ctx, r.db)

	row := toRow(user)
	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return matching.ErrConflict
		}
		return fmt.Errorf("failed to save user %q: %w", user.Username, err)
	}
	return nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, user *models.User) error {
	db := getDB(ctx, r.db)

	row := toRow(user)
	res := db.WithContext(ctx).Model(&userRow{}).Where("username = ?", user.Username).
		Select("*").Omit("username", "role", "created_at").Updates(row)
	if res.Error != nil {
		return fmt.Errorf("failed to update user %q: %w", user.Username, res.Error)
	}
	if res.RowsAffected == 0 {
		return matching.ErrNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) ListAll(ctx context.Context) ([]*models.User, error) {
	db := getDB(ctx, r.db)

	var rows []userRow
	if err := db.WithContext(ctx).Order("username ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users := make([]*models.User, 0, len(rows))
	for i := range rows {
		users = append(users, fromRow(&rows[i]))
	}
	return users, nil
}

func (r *UserRepositoryImpl) Count(ctx context.Context) (int64, error) {
	db := getDB(ctx, r.db)

	var count int64
	if err := db.WithContext(ctx).Model(&userRow{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func toRow(u *models.User) *userRow {
	row := &userRow{
		Username:     u.Username,
		Role:         string(u.Role),
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Industry:     u.Industry,
		Tags:         pq.StringArray(u.Tags),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if u.Creator != nil {
		ct := string(u.Creator.ContentType)
		size := u.Creator.AudienceSize
		style := u.Creator.ContentStyle
		row.ContentType = &ct
		row.AudienceSize = &size
		row.ContentStyle = &style
		row.PreviousCollaborations = pq.StringArray(u.Creator.PreviousCollaborations)
	}
	if u.Sponsor != nil {
		name := u.Sponsor.CompanyName
		audience := u.Sponsor.TargetAudience
		row.CompanyName = &name
		row.CampaignBudget = u.Sponsor.CampaignBudget
		row.TargetAudience = &audience
		row.CampaignGoals = pq.StringArray(u.Sponsor.CampaignGoals)
	}
	return row
}

func fromRow(row *userRow) *models.User {
	u := &models.User{
		Username:     row.Username,
		Role:         models.Role(row.Role),
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Industry:     row.Industry,
		Tags:         []string(row.Tags),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	switch u.Role {
	case models.RoleCreator:
		c := &models.CreatorProfile{
			PreviousCollaborations: []string(row.PreviousCollaborations),
		}
		if row.ContentType != nil {
			c.ContentType = models.ContentType(*row.ContentType)
		}
		if row.AudienceSize != nil {
			c.AudienceSize = *row.AudienceSize
		}
		if row.ContentStyle != nil {
			c.ContentStyle = *row.ContentStyle
		}
		u.Creator = c
	case models.RoleSponsor:
		s := &models.SponsorProfile{
			CampaignBudget: row.CampaignBudget,
			CampaignGoals:  []string(row.CampaignGoals),
		}
		if row.CompanyName != nil {
			s.CompanyName = *row.CompanyName
		}
		if row.TargetAudience != nil {
			s.TargetAudience = *row.TargetAudience
		}
		u.Sponsor = s
	}
	return u
}
