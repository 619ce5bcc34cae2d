package models

import "time"

type VaultCategory string

const (
	VaultCategorySocial        VaultCategory = "social"
	VaultCategoryWork          VaultCategory = "work"
	VaultCategoryFinance       VaultCategory = "finance"
	VaultCategoryShopping      VaultCategory = "shopping"
	VaultCategoryEntertainment VaultCategory = "entertainment"
	VaultCategoryOther         VaultCategory = "other"
)

// VaultEntry is a stored credential. EncryptedPassword only ever holds
// ciphertext.
type VaultEntry struct {
	ID                string        `json:"id"`
	UserID            string        `json:"userId"`
	WebsiteName       string        `json:"websiteName"`
	WebsiteURL        string        `json:"websiteUrl"`
	Username          string        `json:"username"`
	EncryptedPassword string        `json:"encryptedPassword"`
	Notes             string        `json:"notes"`
	Category          VaultCategory `json:"category"`
	LastModified      time.Time     `json:"lastModified"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

// DecryptedVaultEntry is the single-entry view carrying the plaintext next
// to the stored record.
type DecryptedVaultEntry struct {
	*VaultEntry
	DecryptedPassword string `json:"decryptedPassword"`
}

type CreateVaultEntryRequest struct {
	WebsiteName string        `json:"websiteName" validate:"max=200"`
	WebsiteURL  string        `json:"websiteUrl" validate:"max=2048"`
	Username    string        `json:"username" validate:"max=200"`
	Password    string        `json:"password" validate:"max=1024"`
	Notes       string        `json:"notes" validate:"max=500"`
	Category    VaultCategory `json:"category" validate:"omitempty,oneof=social work finance shopping entertainment other"`
}

// UpdateVaultEntryRequest holds optional changes; nil means "leave as is".
type UpdateVaultEntryRequest struct {
	WebsiteName *string        `json:"websiteName" validate:"omitempty,max=200"`
	WebsiteURL  *string        `json:"websiteUrl" validate:"omitempty,max=2048"`
	Username    *string        `json:"username" validate:"omitempty,max=200"`
	Password    *string        `json:"password" validate:"omitempty,max=1024"`
	Notes       *string        `json:"notes" validate:"omitempty,max=500"`
	Category    *VaultCategory `json:"category" validate:"omitempty,oneof=social work finance shopping entertainment other"`
}
