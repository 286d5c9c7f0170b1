package mysql

import (
	"time"

	"campfire/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

// FindByLogin 支持用户名或邮箱登录
func (r *UserRepository) FindByLogin(login string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ? OR email = ?", login, login).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ?", username).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByID(id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) UsernameExists(username string) (bool, error) {
	var n int64
	err := r.DB.Model(&model.User{}).Where("username = ?", username).Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) EmailExists(email string) (bool, error) {
	var n int64
	err := r.DB.Model(&model.User{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

// UpdateFields 更新个人资料字段
func (r *UserRepository) UpdateFields(id uint64, fields map[string]any) error {
	return r.DB.Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

func (r *UserRepository) UpdatePassword(user *model.User, hashed string) error {
	return r.DB.Model(user).Update("password", hashed).Error
}

// SearchByUsername 用户搜索，前缀命中优先由调用方保证不了，这里简单 LIKE
func (r *UserRepository) SearchByUsername(q string, limit int) ([]model.User, error) {
	var list []model.User
	err := r.DB.Where("username LIKE ?", "%"+q+"%").Limit(limit).Find(&list).Error
	return list, err
}

// DeleteAndArchive 注销账号：归档副本和删除活表记录在同一事务里
func (r *UserRepository) DeleteAndArchive(id uint64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}
		archived := model.DeletedUser{
			UserID:      user.ID,
			Username:    user.Username,
			Email:       user.Email,
			Password:    user.Password,
			DisplayName: user.DisplayName,
			About:       user.About,
			Avatar:      user.Avatar,
			Banner:      user.Banner,
			DeletedAt:   time.Now(),
		}
		if err := tx.Create(&archived).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, id).Error
	})
}
