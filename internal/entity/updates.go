package entity

// AccountUpdates 账户更新字段
type AccountUpdates struct {
	Username      *string
	Email         *string
	PasswordHash  *string
	Role          *string
	IsActive      *bool
	EmailVerified *bool
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u AccountUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Username != nil {
		updates["username"] = *u.Username
	}
	if u.Email != nil {
		updates["email"] = *u.Email
	}
	if u.PasswordHash != nil {
		updates["password_hash"] = *u.PasswordHash
	}
	if u.Role != nil {
		updates["role"] = *u.Role
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	if u.EmailVerified != nil {
		updates["email_verified"] = *u.EmailVerified
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u AccountUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// ListingUpdates 目录条目更新字段
type ListingUpdates struct {
	Name        *string
	Description *string
	Location    *string
	Price       *string
	ImagePath   *string
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u ListingUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.Location != nil {
		updates["location"] = *u.Location
	}
	if u.Price != nil {
		updates["price"] = *u.Price
	}
	if u.ImagePath != nil {
		updates["image_path"] = *u.ImagePath
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u ListingUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}
