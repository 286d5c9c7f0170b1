package service

import (
	"testing"

	"campfire/internal/model"
	"campfire/internal/pkg"
	"campfire/internal/repository/mysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeCommunityStore struct {
	byName map[string]*model.Community
}

func (f *fakeCommunityStore) Create(c *model.Community) (*model.Community, error) {
	f.byName[c.Name] = c
	return c, nil
}

func (f *fakeCommunityStore) FindByName(name string) (*model.Community, error) {
	if c, ok := f.byName[name]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCommunityStore) NameExists(name string) (bool, error) {
	_, ok := f.byName[name]
	return ok, nil
}

func (f *fakeCommunityStore) List(int) ([]model.Community, error)           { return nil, nil }
func (f *fakeCommunityStore) ListPopular(int) ([]model.Community, error)    { return nil, nil }
func (f *fakeCommunityStore) Search(string, int) ([]model.Community, error) { return nil, nil }

func (f *fakeCommunityStore) UpdateFields(id uint64, fields map[string]any) error { return nil }

type relKey struct{ communityID, userID uint64 }

type fakeRelationStore struct {
	rels map[relKey]*model.CommunityRelation
}

func (f *fakeRelationStore) Create(rel *model.CommunityRelation) (bool, error) {
	k := relKey{rel.CommunityID, rel.UserID}
	if _, ok := f.rels[k]; ok {
		return false, nil
	}
	f.rels[k] = rel
	return true, nil
}

func (f *fakeRelationStore) Find(communityID, userID uint64) (*model.CommunityRelation, error) {
	if rel, ok := f.rels[relKey{communityID, userID}]; ok {
		return rel, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRelationStore) UpdateRole(communityID, userID uint64, role string) error {
	if rel, ok := f.rels[relKey{communityID, userID}]; ok {
		rel.Role = role
	}
	return nil
}

func (f *fakeRelationStore) Delete(communityID, userID uint64) error {
	delete(f.rels, relKey{communityID, userID})
	return nil
}

func (f *fakeRelationStore) ListJoined(uint64) ([]model.Community, error)  { return nil, nil }
func (f *fakeRelationStore) ListMembers(uint64) ([]mysql.MemberRow, error) { return nil, nil }
func (f *fakeRelationStore) CountPending(uint64) (int64, error)            { return 0, nil }

type fakeUserFinder struct {
	byName map[string]*model.User
}

func (f *fakeUserFinder) FindByUsername(username string) (*model.User, error) {
	if u, ok := f.byName[username]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newTestCommunityService() (*CommunityService, *fakeRelationStore) {
	rels := &fakeRelationStore{rels: make(map[relKey]*model.CommunityRelation)}
	svc := &CommunityService{
		repo: &fakeCommunityStore{byName: map[string]*model.Community{
			"golang":  {ID: 1, Name: "golang", Type: model.CommunityPublic},
			"gophers": {ID: 2, Name: "gophers", Type: model.CommunityRestricted},
			"core":    {ID: 3, Name: "core", Type: model.CommunityPrivate},
		}},
		relations: rels,
		users: &fakeUserFinder{byName: map[string]*model.User{
			"alice": {ID: 10, Username: "alice"},
			"bob":   {ID: 11, Username: "bob"},
		}},
	}
	return svc, rels
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	ae, ok := pkg.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	return ae.StatusCode
}

func TestResolveUnknownCommunity(t *testing.T) {
	svc, _ := newTestCommunityService()
	_, err := svc.Resolve("nope")
	assert.Equal(t, 404, statusOf(t, err))
}

func TestJoinPublicBecomesMember(t *testing.T) {
	svc, rels := newTestCommunityService()

	role, err := svc.Join(10, "golang")
	require.NoError(t, err)
	assert.Equal(t, model.RoleMember, role)
	assert.Equal(t, model.RoleMember, rels.rels[relKey{1, 10}].Role)
}

func TestJoinRestrictedStaysPending(t *testing.T) {
	svc, rels := newTestCommunityService()

	role, err := svc.Join(10, "gophers")
	require.NoError(t, err)
	assert.Equal(t, model.RolePending, role)
	assert.Equal(t, model.RolePending, rels.rels[relKey{2, 10}].Role)
}

func TestJoinTwiceFails(t *testing.T) {
	svc, _ := newTestCommunityService()

	_, err := svc.Join(10, "golang")
	require.NoError(t, err)

	_, err = svc.Join(10, "golang")
	assert.Equal(t, 400, statusOf(t, err))
}

func TestCanViewPrivate(t *testing.T) {
	svc, rels := newTestCommunityService()
	private, err := svc.Resolve("core")
	require.NoError(t, err)

	// 游客和无关系用户都看不到
	assert.Equal(t, 403, statusOf(t, svc.CanView(private, 0)))
	assert.Equal(t, 403, statusOf(t, svc.CanView(private, 10)))

	// pending 还不算成员
	rels.rels[relKey{3, 10}] = &model.CommunityRelation{CommunityID: 3, UserID: 10, Role: model.RolePending}
	assert.Equal(t, 403, statusOf(t, svc.CanView(private, 10)))

	rels.rels[relKey{3, 10}].Role = model.RoleMember
	assert.NoError(t, svc.CanView(private, 10))
}

func TestCanPost(t *testing.T) {
	svc, rels := newTestCommunityService()
	public, _ := svc.Resolve("golang")
	restricted, _ := svc.Resolve("gophers")

	// 公开社区登录即可发帖，游客不行
	assert.NoError(t, svc.CanPost(public, 10))
	assert.Equal(t, 401, statusOf(t, svc.CanPost(public, 0)))

	// 受限社区要有非 pending 关系
	assert.Equal(t, 403, statusOf(t, svc.CanPost(restricted, 10)))
	rels.rels[relKey{2, 10}] = &model.CommunityRelation{CommunityID: 2, UserID: 10, Role: model.RolePending}
	assert.Equal(t, 403, statusOf(t, svc.CanPost(restricted, 10)))
	rels.rels[relKey{2, 10}].Role = model.RoleMember
	assert.NoError(t, svc.CanPost(restricted, 10))
}

func TestAcceptPromotesPendingToMember(t *testing.T) {
	svc, rels := newTestCommunityService()
	rels.rels[relKey{2, 99}] = &model.CommunityRelation{CommunityID: 2, UserID: 99, Role: model.RoleAdmin}
	rels.rels[relKey{2, 10}] = &model.CommunityRelation{CommunityID: 2, UserID: 10, Role: model.RolePending}

	require.NoError(t, svc.Accept("gophers", 99, "alice"))
	assert.Equal(t, model.RoleMember, rels.rels[relKey{2, 10}].Role)
}

func TestAcceptWithoutPendingRequest(t *testing.T) {
	svc, rels := newTestCommunityService()
	rels.rels[relKey{2, 99}] = &model.CommunityRelation{CommunityID: 2, UserID: 99, Role: model.RoleModerator}

	err := svc.Accept("gophers", 99, "alice")
	assert.Equal(t, 400, statusOf(t, err))
}

func TestPromoteRequiresAdmin(t *testing.T) {
	svc, rels := newTestCommunityService()
	rels.rels[relKey{1, 99}] = &model.CommunityRelation{CommunityID: 1, UserID: 99, Role: model.RoleModerator}
	rels.rels[relKey{1, 10}] = &model.CommunityRelation{CommunityID: 1, UserID: 10, Role: model.RoleMember}

	// moderator 不能升权
	err := svc.Promote("golang", 99, "alice")
	assert.Equal(t, 403, statusOf(t, err))

	rels.rels[relKey{1, 99}].Role = model.RoleAdmin
	require.NoError(t, svc.Promote("golang", 99, "alice"))
	assert.Equal(t, model.RoleModerator, rels.rels[relKey{1, 10}].Role)
}

func TestDemoteOnlyTouchesModerators(t *testing.T) {
	svc, rels := newTestCommunityService()
	rels.rels[relKey{1, 99}] = &model.CommunityRelation{CommunityID: 1, UserID: 99, Role: model.RoleAdmin}
	rels.rels[relKey{1, 10}] = &model.CommunityRelation{CommunityID: 1, UserID: 10, Role: model.RoleMember}

	err := svc.Demote("golang", 99, "alice")
	assert.Equal(t, 400, statusOf(t, err))
}

func TestKickCannotRemoveAdmin(t *testing.T) {
	svc, rels := newTestCommunityService()
	rels.rels[relKey{1, 99}] = &model.CommunityRelation{CommunityID: 1, UserID: 99, Role: model.RoleAdmin}
	rels.rels[relKey{1, 10}] = &model.CommunityRelation{CommunityID: 1, UserID: 10, Role: model.RoleAdmin}

	err := svc.Kick("golang", 99, "alice")
	assert.Equal(t, 403, statusOf(t, err))
}

func TestCancelRequestOnlyForPending(t *testing.T) {
	svc, rels := newTestCommunityService()

	err := svc.CancelRequest(10, "gophers")
	assert.Equal(t, 400, statusOf(t, err))

	rels.rels[relKey{2, 10}] = &model.CommunityRelation{CommunityID: 2, UserID: 10, Role: model.RolePending}
	require.NoError(t, svc.CancelRequest(10, "gophers"))
	_, ok := rels.rels[relKey{2, 10}]
	assert.False(t, ok)
}

func TestGetTrimsPrivateCommunityForOutsiders(t *testing.T) {
	svc, rels := newTestCommunityService()
	core, err := svc.Resolve("core")
	require.NoError(t, err)
	core.Description = "members only"
	core.Icon = "core.png"
	core.CreatorID = 42

	// 游客只拿到名字和类型
	got, role, err := svc.Get("core", 0)
	require.NoError(t, err)
	assert.Equal(t, "core", got.Name)
	assert.Equal(t, model.CommunityPrivate, got.Type)
	assert.Empty(t, got.Description)
	assert.Empty(t, got.Icon)
	assert.Zero(t, got.CreatorID)
	assert.Equal(t, "", role)

	// pending 还不算成员，照样裁剪
	rels.rels[relKey{3, 10}] = &model.CommunityRelation{CommunityID: 3, UserID: 10, Role: model.RolePending}
	got, role, err = svc.Get("core", 10)
	require.NoError(t, err)
	assert.Empty(t, got.Description)
	assert.Equal(t, model.RolePending, role)

	// 成员看全量
	rels.rels[relKey{3, 10}].Role = model.RoleMember
	got, role, err = svc.Get("core", 10)
	require.NoError(t, err)
	assert.Equal(t, "members only", got.Description)
	assert.Equal(t, uint64(42), got.CreatorID)
	assert.Equal(t, model.RoleMember, role)
}

func TestFollowCommunity(t *testing.T) {
	svc, rels := newTestCommunityService()

	require.NoError(t, svc.FollowCommunity(10, "golang"))
	assert.Equal(t, model.RoleFollower, rels.rels[relKey{1, 10}].Role)

	// 重复关注
	err := svc.FollowCommunity(10, "golang")
	assert.Equal(t, 400, statusOf(t, err))

	// 私区不可关注
	err = svc.FollowCommunity(10, "core")
	assert.Equal(t, 403, statusOf(t, err))
}

func TestUnfollowCommunityOnlyRemovesFollowers(t *testing.T) {
	svc, rels := newTestCommunityService()

	err := svc.UnfollowCommunity(10, "golang")
	assert.Equal(t, 400, statusOf(t, err))

	// 成员退出要走 Leave，不能走 unfollow
	rels.rels[relKey{1, 10}] = &model.CommunityRelation{CommunityID: 1, UserID: 10, Role: model.RoleMember}
	err = svc.UnfollowCommunity(10, "golang")
	assert.Equal(t, 400, statusOf(t, err))

	rels.rels[relKey{1, 10}].Role = model.RoleFollower
	require.NoError(t, svc.UnfollowCommunity(10, "golang"))
	_, ok := rels.rels[relKey{1, 10}]
	assert.False(t, ok)
}

func TestFollowerIsReadOnly(t *testing.T) {
	svc, rels := newTestCommunityService()
	restricted, _ := svc.Resolve("gophers")
	private, _ := svc.Resolve("core")

	rels.rels[relKey{2, 10}] = &model.CommunityRelation{CommunityID: 2, UserID: 10, Role: model.RoleFollower}
	rels.rels[relKey{3, 10}] = &model.CommunityRelation{CommunityID: 3, UserID: 10, Role: model.RoleFollower}

	// follower 不具备成员身份：不能在受限社区发帖，也进不了私区
	assert.Equal(t, 403, statusOf(t, svc.CanPost(restricted, 10)))
	assert.Equal(t, 403, statusOf(t, svc.CanView(private, 10)))
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	svc, _ := newTestCommunityService()
	_, err := svc.Create(10, "golang", "", model.CommunityPublic, "", "")
	assert.Equal(t, 409, statusOf(t, err))
}

func TestCreateRejectsInvalidType(t *testing.T) {
	svc, _ := newTestCommunityService()
	_, err := svc.Create(10, "newbies", "", "secret", "", "")
	assert.Equal(t, 400, statusOf(t, err))
}
