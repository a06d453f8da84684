package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/talash/api-go/models"
	"github.com/talash/api-go/utils"
	"gorm.io/gorm"
)

// Claims are the verified identity attributes handed back by the identity
// provider.
type Claims struct {
	UID           string
	Email         string
	Name          string
	EmailVerified bool
}

// AccountService maps verified emails to local accounts. Creation is the
// only write it performs; accounts are never deleted here.
type AccountService struct {
	DB *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{DB: db}
}

// ResolveOrCreate returns the account for the claims' email, creating a
// "user" account on first sign-in. Two concurrent first sign-ins race on
// the unique email index; the loser re-fetches the winner's row.
func (as *AccountService) ResolveOrCreate(claims *Claims) (*models.User, error) {
	email := strings.TrimSpace(strings.ToLower(claims.Email))
	if !utils.ValidEmailFormat(email) {
		return nil, fmt.Errorf("%w: claims carry no valid email", ErrIdentityMismatch)
	}

	user, err := as.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	name := strings.TrimSpace(claims.Name)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}

	created := models.User{
		Name:  name,
		Email: email,
		Role:  models.RoleUser,
	}
	if err := as.DB.Create(&created).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Another request won the race; theirs is authoritative.
			existing, ferr := as.GetByEmail(email)
			if ferr != nil {
				return nil, ferr
			}
			if existing != nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return &created, nil
}

// CreateAccount inserts an account with an explicit role. Used by the
// admin-key-gated signup; the caller has already validated the gate.
func (as *AccountService) CreateAccount(name, email, role string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !utils.ValidEmailFormat(email) {
		return nil, fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	user := models.User{
		Name:  strings.TrimSpace(name),
		Email: email,
		Role:  role,
	}
	if err := as.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: user with this email already exists", ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return &user, nil
}

func (as *AccountService) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := as.DB.Where("email = ?", strings.ToLower(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (as *AccountService) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := as.DB.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (as *AccountService) Exists(email string) (bool, error) {
	user, err := as.GetByEmail(email)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}
