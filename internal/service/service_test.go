package service

import (
	"coffee_platform/internal/domain"
	"coffee_platform/internal/otp"
	"coffee_platform/internal/storage"
	"coffee_platform/internal/testutil"
	"coffee_platform/internal/utils"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sentCode struct {
	id      domain.Identifier
	code    string
	purpose otp.Purpose
}

type captureSender struct {
	sent []sentCode
}

func (c *captureSender) SendCode(_ context.Context, id domain.Identifier, code string, purpose otp.Purpose, _ time.Duration) {
	c.sent = append(c.sent, sentCode{id, code, purpose})
}

func (c *captureSender) last(t *testing.T) sentCode {
	t.Helper()
	require.NotEmpty(t, c.sent)
	return c.sent[len(c.sent)-1]
}

type authFixture struct {
	db     *gorm.DB
	mr     *miniredis.Miniredis
	auth   *AuthService
	sender *captureSender
	tokens *utils.TokenIssuer
}

func newAuthFixture(t *testing.T, maxCodes int) *authFixture {
	t.Helper()
	gdb := testutil.DB(t)
	rdb, mr := testutil.Redis(t)
	sender := &captureSender{}
	tokens := utils.NewTokenIssuer(utils.TokenSecrets{UserAccess: "a", UserRefresh: "r", UserRegister: "g", AdminAccess: "aa", AdminRefresh: "ar"})
	auth := NewAuthService(gdb, otp.NewIssuer(rdb), otp.NewLimiter(rdb, maxCodes, 10*time.Minute), sender, tokens, NewActivityLog(gdb))
	return &authFixture{db: gdb, mr: mr, auth: auth, sender: sender, tokens: tokens}
}

func profile() utils.RegisterProfile {
	return utils.RegisterProfile{
		FirstName:  "Nigar",
		SecondName: "Hüseynova",
		Password:   "Password1!",
		Gender:     "female",
		BirthDate:  time.Date(1998, 4, 12, 0, 0, 0, 0, time.UTC),
	}
}

func (f *authFixture) register(t *testing.T, id domain.Identifier) *domain.User {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.auth.StartRegistration(ctx, id, "Password1!"))
	token, err := f.auth.VerifyCode(ctx, id, f.sender.last(t).code)
	require.NoError(t, err)
	claims, err := f.tokens.Verify(utils.ActorUser, utils.KindRegister, token)
	require.NoError(t, err)
	user, err := f.auth.CompleteRegistration(ctx, *claims.Identifier, profile())
	require.NoError(t, err)
	return user
}

func TestRegistrationFlow(t *testing.T) {
	f := newAuthFixture(t, 5)
	id := domain.EmailIdentifier("nigar@example.com")

	user := f.register(t, id)
	require.NotNil(t, user.Email)
	assert.Equal(t, "nigar@example.com", *user.Email)
	assert.Nil(t, user.PhoneNumber)
	assert.NotEqual(t, "Password1!", user.Password)
	assert.True(t, utils.CheckPassword(user.Password, "Password1!"))
	assert.True(t, domain.DefaultBalance.Equal(user.Balance))
	assert.Equal(t, "bronze", user.MembershipLevel)
	assert.Equal(t, domain.AccountActive, user.AccountStatus)

	var stored domain.User
	require.NoError(t, f.db.Preload("Activities").First(&stored, user.ID).Error)
	require.Len(t, stored.Activities, 1)
	assert.Equal(t, "Account created", stored.Activities[0].Message)
	assert.Equal(t, otp.PurposeRegistration, f.sender.last(t).purpose)
}

func TestStartRegistrationRejectsExistingAccount(t *testing.T) {
	f := newAuthFixture(t, 5)
	ctx := context.Background()
	id := domain.PhoneIdentifier("0501234567")
	user := f.register(t, id)

	assert.ErrorIs(t, f.auth.StartRegistration(ctx, id, "Password1!"), domain.ErrUserAlreadyExists)

	// Soft-deleted accounts still hold their identifier
	require.NoError(t, f.db.Delete(&domain.User{}, user.ID).Error)
	assert.ErrorIs(t, f.auth.StartRegistration(ctx, id, "Password1!"), domain.ErrUserAlreadyExists)
}

func TestStartRegistrationValidates(t *testing.T) {
	f := newAuthFixture(t, 5)
	ctx := context.Background()
	var verr *domain.ValidationError

	assert.ErrorAs(t, f.auth.StartRegistration(ctx, domain.ParseIdentifier("not-an-email@"), "Password1!"), &verr)
	assert.ErrorAs(t, f.auth.StartRegistration(ctx, domain.ParseIdentifier("123456"), "Password1!"), &verr)
	assert.ErrorAs(t, f.auth.StartRegistration(ctx, domain.ParseIdentifier("a@example.com"), "password"), &verr)
	assert.Empty(t, f.sender.sent)
}

func TestRestartRevokesPreviousCode(t *testing.T) {
	f := newAuthFixture(t, 5)
	ctx := context.Background()
	id := domain.EmailIdentifier("again@example.com")

	require.NoError(t, f.auth.StartRegistration(ctx, id, "Password1!"))
	first := f.sender.last(t).code
	require.NoError(t, f.auth.StartRegistration(ctx, id, "Password1!"))
	second := f.sender.last(t).code

	if first != second {
		_, err := f.auth.VerifyCode(ctx, id, first)
		assert.ErrorIs(t, err, domain.ErrInvalidOTP)
	}
	_, err := f.auth.VerifyCode(ctx, id, second)
	assert.NoError(t, err)
}

func TestVerifyCodeExpired(t *testing.T) {
	f := newAuthFixture(t, 5)
	ctx := context.Background()
	id := domain.EmailIdentifier("slow@example.com")

	require.NoError(t, f.auth.StartRegistration(ctx, id, "Password1!"))
	f.mr.FastForward(otp.DefaultTTL + time.Second)
	_, err := f.auth.VerifyCode(ctx, id, f.sender.last(t).code)
	assert.ErrorIs(t, err, domain.ErrInvalidOTP)
}

func TestCodeRequestsAreLimited(t *testing.T) {
	f := newAuthFixture(t, 1)
	ctx := context.Background()
	id := domain.EmailIdentifier("spam@example.com")

	require.NoError(t, f.auth.StartRegistration(ctx, id, "Password1!"))
	assert.ErrorIs(t, f.auth.StartRegistration(ctx, id, "Password1!"), domain.ErrTooManyOTPRequests)
	assert.Len(t, f.sender.sent, 1)
}

func TestCompleteRegistrationTwice(t *testing.T) {
	f := newAuthFixture(t, 5)
	id := domain.EmailIdentifier("twice@example.com")
	f.register(t, id)

	_, err := f.auth.CompleteRegistration(context.Background(), id, profile())
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestRecoveryFlow(t *testing.T) {
	f := newAuthFixture(t, 5)
	ctx := context.Background()
	id := domain.EmailIdentifier("forgot@example.com")

	assert.ErrorIs(t, f.auth.StartRecovery(ctx, id), domain.ErrUserNotFound)

	user := f.register(t, id)
	require.NoError(t, f.auth.StartRecovery(ctx, id))
	sent := f.sender.last(t)
	assert.Equal(t, otp.PurposeRecovery, sent.purpose)

	_, err := f.auth.VerifyCode(ctx, id, sent.code)
	require.NoError(t, err)

	var verr *domain.ValidationError
	assert.ErrorAs(t, f.auth.CompleteRecovery(ctx, id, "weak"), &verr)
	require.NoError(t, f.auth.CompleteRecovery(ctx, id, "NewPassw0rd!"))

	_, _, err = f.auth.Login(ctx, id, "Password1!")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	pair, _, err := f.auth.Login(ctx, id, "NewPassw0rd!")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	entries, err := f.auth.activity.Recent(ctx, domain.OwnerUsers, user.ID, 10)
	require.NoError(t, err)
	var messages []string
	for _, e := range entries {
		messages = append(messages, e.Message)
	}
	assert.Contains(t, messages, "Password changed")
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t, 5)
	ctx := context.Background()
	id := domain.EmailIdentifier("login@example.com")
	user := f.register(t, id)

	_, _, err := f.auth.Login(ctx, domain.EmailIdentifier("nobody@example.com"), "Password1!")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, _, err = f.auth.Login(ctx, id, "Wrong1!pass")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	pair, _, err := f.auth.Login(ctx, id, "Password1!")
	require.NoError(t, err)
	claims, err := f.tokens.Verify(utils.ActorUser, utils.KindAccess, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.ID)
	_, err = f.tokens.Verify(utils.ActorUser, utils.KindRefresh, pair.RefreshToken)
	require.NoError(t, err)

	access, err := f.auth.Refresh(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	require.NoError(t, f.db.Model(&domain.User{}).Where("id = ?", user.ID).Update("account_status", domain.AccountBlocked).Error)
	_, _, err = f.auth.Login(ctx, id, "Password1!")
	assert.ErrorIs(t, err, domain.ErrAccountBlocked)
	_, err = f.auth.Refresh(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrAccountBlocked)
}

func TestChangePassword(t *testing.T) {
	f := newAuthFixture(t, 5)
	ctx := context.Background()
	user := f.register(t, domain.EmailIdentifier("change@example.com"))
	var verr *domain.ValidationError

	assert.ErrorAs(t, f.auth.ChangePassword(ctx, user.ID, "Wrong1!pass", "Another1!"), &verr)
	assert.ErrorIs(t, f.auth.ChangePassword(ctx, user.ID, "Password1!", "Password1!"), domain.ErrSamePassword)
	assert.ErrorAs(t, f.auth.ChangePassword(ctx, user.ID, "Password1!", "short"), &verr)
	require.NoError(t, f.auth.ChangePassword(ctx, user.ID, "Password1!", "Another1!"))

	reloaded, err := f.auth.User(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, utils.CheckPassword(reloaded.Password, "Another1!"))
}

func TestAdminAuth(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	tokens := utils.NewTokenIssuer(utils.TokenSecrets{UserAccess: "a", UserRefresh: "r", UserRegister: "g", AdminAccess: "aa", AdminRefresh: "ar"})
	svc := NewAdminAuthService(gdb, tokens, NewActivityLog(gdb))

	hash, err := utils.HashPassword("adminpassword")
	require.NoError(t, err)
	admin := domain.Admin{Username: "adminCoffeeMe", Password: hash}
	require.NoError(t, gdb.Create(&admin).Error)

	_, err = svc.Login(ctx, "adminCoffeeMe", "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "ghost", "adminpassword")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	pair, err := svc.Login(ctx, "adminCoffeeMe", "adminpassword")
	require.NoError(t, err)
	claims, err := tokens.Verify(utils.ActorAdmin, utils.KindRefresh, pair.RefreshToken)
	require.NoError(t, err)

	access, err := svc.Refresh(ctx, claims.ID)
	require.NoError(t, err)
	_, err = tokens.Verify(utils.ActorAdmin, utils.KindAccess, access)
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(ctx, admin.ID, "adminpassword", "Str0ng!Admin"))
	_, err = svc.Login(ctx, "adminCoffeeMe", "Str0ng!Admin")
	assert.NoError(t, err)
}

func TestActivityLogSwallowsFailures(t *testing.T) {
	gdb := testutil.DB(t)
	require.NoError(t, gdb.Migrator().DropTable(&domain.Activity{}))
	log := NewActivityLog(gdb)
	assert.NotPanics(t, func() { log.Admin(context.Background(), 1, "Deleted user 1") })
}

func shopInput() utils.ShopInput {
	return utils.ShopInput{
		Name:           "Corner Coffee",
		Address:        "Nizami street 10, Baku",
		ShortAddress:   "Nizami",
		Location:       domain.GeoPoint{Coordinates: domain.Coordinates{Latitude: 40.37, Longitude: 49.83}},
		DiscountRate:   5,
		OperatingHours: domain.OperatingHours{Open: "8", Close: "22"},
	}
}

func TestProvisionShop(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	root := t.TempDir()
	store := storage.NewDiskStore(root, "/public")
	logo, err := storage.DetectImage(testutil.PNG(t))
	require.NoError(t, err)

	out, err := NewShopProvisioner(gdb, store, NewActivityLog(gdb)).Create(ctx, 1, shopInput(), ShopImages{Logo: logo})
	require.NoError(t, err)
	assert.Equal(t, "/public/shops/logos/1.png", out.Shop.Logo)
	assert.FileExists(t, filepath.Join(root, "shops", "logos", "1.png"))

	var partners []domain.Partner
	require.NoError(t, gdb.Preload("Accounts").Where("shop_id = ?", out.Shop.ID).Find(&partners).Error)
	require.Len(t, partners, 1)
	require.Len(t, partners[0].Accounts, 1)
	account := partners[0].Accounts[0]
	assert.Equal(t, domain.RoleAdmin, account.Role)
	assert.Equal(t, partners[0].ID, account.PartnerID)
	assert.NotEmpty(t, account.Username)
	assert.NotEmpty(t, account.Password)

	var shop domain.Shop
	require.NoError(t, gdb.First(&shop, out.Shop.ID).Error)
	assert.Equal(t, "Point", shop.Location.Data().Type)
	assert.Equal(t, domain.DefaultShopSettings, shop.Settings.Data())
	assert.Equal(t, float64(5), shop.Rating)
}

type failingStore struct {
	storage.Store
	failFolder string
}

func (f failingStore) Save(ctx context.Context, folder, name string, img *storage.Image) (string, error) {
	if folder == f.failFolder {
		return "", errors.New("disk full")
	}
	return f.Store.Save(ctx, folder, name, img)
}

func TestProvisionShopRollsBack(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	root := t.TempDir()
	store := failingStore{Store: storage.NewDiskStore(root, "/public"), failFolder: storage.FolderShopCovers}
	img, err := storage.DetectImage(testutil.PNG(t))
	require.NoError(t, err)

	_, err = NewShopProvisioner(gdb, store, NewActivityLog(gdb)).Create(ctx, 1, shopInput(), ShopImages{Logo: img, Cover: img})
	require.Error(t, err)

	var shops, partners, accounts int64
	require.NoError(t, gdb.Unscoped().Model(&domain.Shop{}).Count(&shops).Error)
	require.NoError(t, gdb.Model(&domain.Partner{}).Count(&partners).Error)
	require.NoError(t, gdb.Unscoped().Model(&domain.PartnerAccount{}).Count(&accounts).Error)
	assert.Zero(t, shops)
	assert.Zero(t, partners)
	assert.Zero(t, accounts)

	_, statErr := os.Stat(filepath.Join(root, "shops", "logos", "1.png"))
	assert.True(t, os.IsNotExist(statErr), "stored logo is removed")
}

func TestProvisionShopValidates(t *testing.T) {
	gdb := testutil.DB(t)
	in := shopInput()
	in.Location.Coordinates.Latitude = 120
	_, err := NewShopProvisioner(gdb, storage.NewDiskStore(t.TempDir(), "/public"), NewActivityLog(gdb)).Create(context.Background(), 1, in, ShopImages{})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}
