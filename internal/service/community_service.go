package service

import (
	"errors"

	"campfire/internal/model"
	"campfire/internal/pkg"
	"campfire/internal/repository/mysql"

	"gorm.io/gorm"
)

// 仓储接口按服务用到的面收敛，mysql 实现天然满足
type communityStore interface {
	Create(c *model.Community) (*model.Community, error)
	FindByName(name string) (*model.Community, error)
	NameExists(name string) (bool, error)
	List(limit int) ([]model.Community, error)
	ListPopular(limit int) ([]model.Community, error)
	Search(q string, limit int) ([]model.Community, error)
	UpdateFields(id uint64, fields map[string]any) error
}

type relationStore interface {
	Create(rel *model.CommunityRelation) (bool, error)
	Find(communityID, userID uint64) (*model.CommunityRelation, error)
	UpdateRole(communityID, userID uint64, role string) error
	Delete(communityID, userID uint64) error
	ListJoined(userID uint64) ([]model.Community, error)
	ListMembers(communityID uint64) ([]mysql.MemberRow, error)
	CountPending(communityID uint64) (int64, error)
}

type userFinder interface {
	FindByUsername(username string) (*model.User, error)
}

type CommunityService struct {
	repo      communityStore
	relations relationStore
	users     userFinder
}

func NewCommunityService() *CommunityService {
	return &CommunityService{
		repo:      &mysql.CommunityRepository{DB: mysql.DB},
		relations: &mysql.RelationRepository{DB: mysql.DB},
		users:     &mysql.UserRepository{DB: mysql.DB},
	}
}

func validCommunityType(t string) bool {
	return t == model.CommunityPublic || t == model.CommunityRestricted || t == model.CommunityPrivate
}

// Resolve 按名字找社区，找不到一律 404
func (s *CommunityService) Resolve(name string) (*model.Community, error) {
	community, err := s.repo.FindByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("Community not found")
		}
		return nil, err
	}
	return community, nil
}

func (s *CommunityService) relationOf(communityID, userID uint64) (*model.CommunityRelation, error) {
	if userID == 0 {
		return nil, nil
	}
	rel, err := s.relations.Find(communityID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rel, nil
}

/*
三级访问门禁
*/

// RequireModerator 管理操作门禁：admin 或 moderator，member 也不行
func (s *CommunityService) RequireModerator(name string, userID uint64) (*model.Community, error) {
	community, err := s.Resolve(name)
	if err != nil {
		return nil, err
	}
	rel, err := s.relationOf(community.ID, userID)
	if err != nil {
		return nil, err
	}
	if rel == nil || (rel.Role != model.RoleAdmin && rel.Role != model.RoleModerator) {
		return nil, pkg.Forbidden("You are not authorized to manage this community")
	}
	return community, nil
}

// RequireAdmin 升降权和踢人只有 admin 能做
func (s *CommunityService) RequireAdmin(name string, userID uint64) (*model.Community, error) {
	community, err := s.Resolve(name)
	if err != nil {
		return nil, err
	}
	rel, err := s.relationOf(community.ID, userID)
	if err != nil {
		return nil, err
	}
	if rel == nil || rel.Role != model.RoleAdmin {
		return nil, pkg.Forbidden("You are not authorized to manage this community")
	}
	return community, nil
}

// CanView 浏览门禁：public/restricted 任何人可看，private 要有正式成员身份
func (s *CommunityService) CanView(community *model.Community, viewerID uint64) error {
	if community.Type != model.CommunityPrivate {
		return nil
	}
	rel, err := s.relationOf(community.ID, viewerID)
	if err != nil {
		return err
	}
	if rel == nil || !rel.IsMember() {
		return pkg.Forbidden("This community is private")
	}
	return nil
}

// CanPost 发帖门禁：public 登录即可，restricted/private 要正式成员，follower 只读
func (s *CommunityService) CanPost(community *model.Community, userID uint64) error {
	if userID == 0 {
		return pkg.Unauthorized("Unauthorized", pkg.CodeNoToken)
	}
	if community.Type == model.CommunityPublic {
		return nil
	}
	rel, err := s.relationOf(community.ID, userID)
	if err != nil {
		return err
	}
	if rel == nil || !rel.IsMember() {
		return pkg.Forbidden("You are not a member of this community")
	}
	return nil
}

/*
建区与成员流转
*/

func (s *CommunityService) Create(userID uint64, name, description, ctype, icon, banner string) (*model.Community, error) {
	if name == "" {
		return nil, pkg.BadRequest("Community name is required!")
	}
	if !validCommunityType(ctype) {
		return nil, pkg.BadRequest("Invalid community type")
	}
	if taken, err := s.repo.NameExists(name); err != nil {
		return nil, err
	} else if taken {
		return nil, pkg.Conflict("Community name already taken!")
	}

	community := &model.Community{
		Name:        name,
		DisplayName: name, // 默认取名字
		Description: description,
		Type:        ctype,
		Icon:        icon,
		Banner:      banner,
		CreatorID:   userID,
	}
	return s.repo.Create(community)
}

func (s *CommunityService) CheckName(name string) (bool, error) {
	return s.repo.NameExists(name)
}

func (s *CommunityService) Joined(userID uint64) ([]model.Community, error) {
	return s.relations.ListJoined(userID)
}

// Join public 直接成为 member，restricted/private 先挂 pending；
// 唯一索引保证并发下也只会有一条关系
func (s *CommunityService) Join(userID uint64, name string) (string, error) {
	community, err := s.Resolve(name)
	if err != nil {
		return "", err
	}

	role := model.RoleMember
	if community.Type != model.CommunityPublic {
		role = model.RolePending
	}

	created, err := s.relations.Create(&model.CommunityRelation{
		CommunityID: community.ID,
		UserID:      userID,
		Role:        role,
	})
	if err != nil {
		return "", err
	}
	if !created {
		return "", pkg.BadRequest("User already in community!")
	}
	return role, nil
}

// FollowCommunity 关注社区：帖子进 feed 但不具备成员身份；私区不可关注
func (s *CommunityService) FollowCommunity(userID uint64, name string) error {
	community, err := s.Resolve(name)
	if err != nil {
		return err
	}
	if community.Type == model.CommunityPrivate {
		return pkg.Forbidden("This community is private")
	}
	created, err := s.relations.Create(&model.CommunityRelation{
		CommunityID: community.ID,
		UserID:      userID,
		Role:        model.RoleFollower,
	})
	if err != nil {
		return err
	}
	if !created {
		return pkg.BadRequest("User already in community!")
	}
	return nil
}

// UnfollowCommunity 只解除 follower 关系，成员请走 Leave
func (s *CommunityService) UnfollowCommunity(userID uint64, name string) error {
	community, err := s.Resolve(name)
	if err != nil {
		return err
	}
	rel, err := s.relationOf(community.ID, userID)
	if err != nil {
		return err
	}
	if rel == nil || rel.Role != model.RoleFollower {
		return pkg.BadRequest("You are not following this community")
	}
	return s.relations.Delete(community.ID, userID)
}

func (s *CommunityService) Leave(userID uint64, name string) error {
	community, err := s.Resolve(name)
	if err != nil {
		return err
	}
	return s.relations.Delete(community.ID, userID)
}

// CancelRequest 撤回自己的加入申请
func (s *CommunityService) CancelRequest(userID uint64, name string) error {
	community, err := s.Resolve(name)
	if err != nil {
		return err
	}
	rel, err := s.relationOf(community.ID, userID)
	if err != nil {
		return err
	}
	if rel == nil || rel.Role != model.RolePending {
		return pkg.BadRequest("No pending join request")
	}
	return s.relations.Delete(community.ID, userID)
}

func (s *CommunityService) Members(name string, viewerID uint64) ([]mysql.MemberRow, error) {
	community, err := s.Resolve(name)
	if err != nil {
		return nil, err
	}
	if err := s.CanView(community, viewerID); err != nil {
		return nil, err
	}
	return s.relations.ListMembers(community.ID)
}

func (s *CommunityService) PendingCount(name string, userID uint64) (int64, error) {
	community, err := s.RequireModerator(name, userID)
	if err != nil {
		return 0, err
	}
	return s.relations.CountPending(community.ID)
}

// Accept pending → member
func (s *CommunityService) Accept(name string, actorID uint64, username string) error {
	community, target, err := s.moderatedTarget(name, actorID, username)
	if err != nil {
		return err
	}
	rel, err := s.relationOf(community.ID, target.ID)
	if err != nil {
		return err
	}
	if rel == nil || rel.Role != model.RolePending {
		return pkg.BadRequest("No pending join request for this user")
	}
	return s.relations.UpdateRole(community.ID, target.ID, model.RoleMember)
}

// Reject 拒绝即删除 pending 关系
func (s *CommunityService) Reject(name string, actorID uint64, username string) error {
	community, target, err := s.moderatedTarget(name, actorID, username)
	if err != nil {
		return err
	}
	rel, err := s.relationOf(community.ID, target.ID)
	if err != nil {
		return err
	}
	if rel == nil || rel.Role != model.RolePending {
		return pkg.BadRequest("No pending join request for this user")
	}
	return s.relations.Delete(community.ID, target.ID)
}

// Promote member → moderator
func (s *CommunityService) Promote(name string, actorID uint64, username string) error {
	community, target, err := s.adminTarget(name, actorID, username)
	if err != nil {
		return err
	}
	rel, err := s.relationOf(community.ID, target.ID)
	if err != nil {
		return err
	}
	if rel == nil || rel.Role != model.RoleMember {
		return pkg.BadRequest("User is not a regular member")
	}
	return s.relations.UpdateRole(community.ID, target.ID, model.RoleModerator)
}

// Demote moderator → member
func (s *CommunityService) Demote(name string, actorID uint64, username string) error {
	community, target, err := s.adminTarget(name, actorID, username)
	if err != nil {
		return err
	}
	rel, err := s.relationOf(community.ID, target.ID)
	if err != nil {
		return err
	}
	if rel == nil || rel.Role != model.RoleModerator {
		return pkg.BadRequest("User is not a moderator")
	}
	return s.relations.UpdateRole(community.ID, target.ID, model.RoleMember)
}

// Kick moderator 能踢普通成员，踢 moderator 要 admin，admin 不可踢
func (s *CommunityService) Kick(name string, actorID uint64, username string) error {
	community, target, err := s.moderatedTarget(name, actorID, username)
	if err != nil {
		return err
	}
	rel, err := s.relationOf(community.ID, target.ID)
	if err != nil {
		return err
	}
	if rel == nil {
		return pkg.BadRequest("User is not in this community")
	}
	if rel.Role == model.RoleAdmin {
		return pkg.Forbidden("Cannot kick an admin")
	}
	if rel.Role == model.RoleModerator {
		actor, err := s.relationOf(community.ID, actorID)
		if err != nil {
			return err
		}
		if actor == nil || actor.Role != model.RoleAdmin {
			return pkg.Forbidden("Only the admin can kick a moderator")
		}
	}
	return s.relations.Delete(community.ID, target.ID)
}

func (s *CommunityService) moderatedTarget(name string, actorID uint64, username string) (*model.Community, *model.User, error) {
	community, err := s.RequireModerator(name, actorID)
	if err != nil {
		return nil, nil, err
	}
	target, err := s.findUser(username)
	if err != nil {
		return nil, nil, err
	}
	return community, target, nil
}

func (s *CommunityService) adminTarget(name string, actorID uint64, username string) (*model.Community, *model.User, error) {
	community, err := s.RequireAdmin(name, actorID)
	if err != nil {
		return nil, nil, err
	}
	target, err := s.findUser(username)
	if err != nil {
		return nil, nil, err
	}
	return community, target, nil
}

func (s *CommunityService) findUser(username string) (*model.User, error) {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}

/*
设置
*/

func (s *CommunityService) UpdateSetting(name string, actorID uint64, field, value string) error {
	community, err := s.RequireModerator(name, actorID)
	if err != nil {
		return err
	}
	if field == "type" && !validCommunityType(value) {
		return pkg.BadRequest("Invalid community type")
	}
	return s.repo.UpdateFields(community.ID, map[string]any{field: value})
}

/*
列表
*/

func (s *CommunityService) List() ([]model.Community, error) {
	return s.repo.List(mysql.FeedLimit)
}

func (s *CommunityService) ListPopular() ([]model.Community, error) {
	return s.repo.ListPopular(mysql.FeedLimit)
}

func (s *CommunityService) Search(q string) ([]model.Community, error) {
	return s.repo.Search(q, mysql.FeedLimit)
}

// Get 公共详情：私有社区对非成员只露名字和类型
func (s *CommunityService) Get(name string, viewerID uint64) (*model.Community, string, error) {
	community, err := s.Resolve(name)
	if err != nil {
		return nil, "", err
	}
	role := ""
	rel, err := s.relationOf(community.ID, viewerID)
	if err != nil {
		return nil, "", err
	}
	if rel != nil {
		role = rel.Role
	}
	if community.Type == model.CommunityPrivate && (rel == nil || !rel.IsMember()) {
		trimmed := &model.Community{
			ID:        community.ID,
			Name:      community.Name,
			Type:      community.Type,
			CreatedAt: community.CreatedAt,
		}
		return trimmed, role, nil
	}
	return community, role, nil
}
