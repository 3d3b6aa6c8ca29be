package repo

import "github.com/Skotchmaster/shopfront/internal/models"

type productRecord struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"`
	Name        string  `gorm:"size:100;not null"`
	Description string  `gorm:"size:200;not null;default:''"`
	Price       float64 `gorm:"not null"`
}

func (productRecord) TableName() string { return "products" }

type userRecord struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"size:50;not null;uniqueIndex:idx_users_username"`
	Email        string `gorm:"size:120;not null;uniqueIndex:idx_users_email"`
	PasswordHash string `gorm:"size:128;not null"`
}

func (userRecord) TableName() string { return "users" }

func productFromRecord(r productRecord) models.Product {
	return models.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
	}
}

func productToRecord(p models.Product) productRecord {
	return productRecord{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
	}
}

func userFromRecord(r userRecord) models.User {
	return models.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
	}
}

func userToRecord(u models.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
	}
}
