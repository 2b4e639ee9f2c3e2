package bankgate_test

import (
	"context"

	bankgate "github.com/goliatone/bankgate"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockIdentityProvider implements bankgate.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) SignIn(ctx context.Context, email, password string) (*bankgate.SignInResult, error) {
	args := m.Called(ctx, email, password)
	res, _ := args.Get(0).(*bankgate.SignInResult)
	return res, args.Error(1)
}

func (m *MockIdentityProvider) RespondToAuthChallenge(ctx context.Context, challengeName, session string, input bankgate.ChallengeInput) (*bankgate.SignInResult, error) {
	args := m.Called(ctx, challengeName, session, input)
	res, _ := args.Get(0).(*bankgate.SignInResult)
	return res, args.Error(1)
}

func (m *MockIdentityProvider) CreateUserByEmail(ctx context.Context, email string) (*bankgate.SignUpResult, error) {
	args := m.Called(ctx, email)
	res, _ := args.Get(0).(*bankgate.SignUpResult)
	return res, args.Error(1)
}

func (m *MockIdentityProvider) CreateAgentUser(ctx context.Context, email string, suppressNotification bool) (string, error) {
	args := m.Called(ctx, email, suppressNotification)
	return args.String(0), args.Error(1)
}

func (m *MockIdentityProvider) ConfirmSignUp(ctx context.Context, email, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

func (m *MockIdentityProvider) ResendConfirmationCode(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockIdentityProvider) AdminConfirmUser(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockIdentityProvider) ChangePassword(ctx context.Context, token, newPassword, oldPassword string) error {
	args := m.Called(ctx, token, newPassword, oldPassword)
	return args.Error(0)
}

func (m *MockIdentityProvider) ForgotPassword(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockIdentityProvider) ConfirmForgotPassword(ctx context.Context, input bankgate.PasswordResetInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockIdentityProvider) UpdateUserAttributes(ctx context.Context, token string, update bankgate.ContactUpdate) error {
	args := m.Called(ctx, token, update)
	return args.Error(0)
}

func (m *MockIdentityProvider) AttributeVerificationCode(ctx context.Context, token, attributeName string) error {
	args := m.Called(ctx, token, attributeName)
	return args.Error(0)
}

func (m *MockIdentityProvider) VerifyUserAttribute(ctx context.Context, token, code, attributeName string) error {
	args := m.Called(ctx, token, code, attributeName)
	return args.Error(0)
}

func (m *MockIdentityProvider) GetUser(ctx context.Context, token string) (*bankgate.ProviderUser, error) {
	args := m.Called(ctx, token)
	res, _ := args.Get(0).(*bankgate.ProviderUser)
	return res, args.Error(1)
}

func (m *MockIdentityProvider) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockIdentityProvider) LogoutForUser(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// MockUserStore implements bankgate.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (*bankgate.User, error) {
	args := m.Called(ctx, email)
	res, _ := args.Get(0).(*bankgate.User)
	return res, args.Error(1)
}

func (m *MockUserStore) FindByProviderID(ctx context.Context, providerID string) (*bankgate.User, error) {
	args := m.Called(ctx, providerID)
	res, _ := args.Get(0).(*bankgate.User)
	return res, args.Error(1)
}

func (m *MockUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) Register(ctx context.Context, record *bankgate.User) (*bankgate.User, error) {
	args := m.Called(ctx, record)
	res, _ := args.Get(0).(*bankgate.User)
	return res, args.Error(1)
}

func (m *MockUserStore) Update(ctx context.Context, record *bankgate.User) (*bankgate.User, error) {
	args := m.Called(ctx, record)
	res, _ := args.Get(0).(*bankgate.User)
	return res, args.Error(1)
}

func (m *MockUserStore) SetConfirmation(ctx context.Context, id uuid.UUID, attributeName string, value bool) (*bankgate.User, error) {
	args := m.Called(ctx, id, attributeName, value)
	res, _ := args.Get(0).(*bankgate.User)
	return res, args.Error(1)
}

func (m *MockUserStore) FindAndCount(ctx context.Context, q bankgate.PageQuery) ([]*bankgate.User, int, error) {
	args := m.Called(ctx, q)
	res, _ := args.Get(0).([]*bankgate.User)
	return res, args.Int(1), args.Error(2)
}

// MockAgentStore implements bankgate.AgentStore
type MockAgentStore struct {
	mock.Mock
}

func (m *MockAgentStore) FindByEmail(ctx context.Context, email string) (*bankgate.Agent, error) {
	args := m.Called(ctx, email)
	res, _ := args.Get(0).(*bankgate.Agent)
	return res, args.Error(1)
}

func (m *MockAgentStore) FindByProviderID(ctx context.Context, providerID string) (*bankgate.Agent, error) {
	args := m.Called(ctx, providerID)
	res, _ := args.Get(0).(*bankgate.Agent)
	return res, args.Error(1)
}

func (m *MockAgentStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockAgentStore) Register(ctx context.Context, record *bankgate.Agent) (*bankgate.Agent, error) {
	args := m.Called(ctx, record)
	res, _ := args.Get(0).(*bankgate.Agent)
	return res, args.Error(1)
}

func (m *MockAgentStore) FindAndCount(ctx context.Context, q bankgate.PageQuery) ([]*bankgate.Agent, int, error) {
	args := m.Called(ctx, q)
	res, _ := args.Get(0).([]*bankgate.Agent)
	return res, args.Int(1), args.Error(2)
}

// MockBusinessStore implements bankgate.BusinessStore
type MockBusinessStore struct {
	mock.Mock
}

func (m *MockBusinessStore) FindByUserID(ctx context.Context, userID uuid.UUID) (*bankgate.BusinessProfile, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).(*bankgate.BusinessProfile)
	return res, args.Error(1)
}

func (m *MockBusinessStore) Create(ctx context.Context, record *bankgate.BusinessProfile) (*bankgate.BusinessProfile, error) {
	args := m.Called(ctx, record)
	res, _ := args.Get(0).(*bankgate.BusinessProfile)
	return res, args.Error(1)
}

func (m *MockBusinessStore) Update(ctx context.Context, record *bankgate.BusinessProfile) (*bankgate.BusinessProfile, error) {
	args := m.Called(ctx, record)
	res, _ := args.Get(0).(*bankgate.BusinessProfile)
	return res, args.Error(1)
}

// MockContext mocks the router.Context
type MockContext struct {
	mock.Mock
	NextCalled bool
}

func (m *MockContext) Next() error {
	m.NextCalled = true
	return nil
}

func (m *MockContext) Context() context.Context {
	args := m.Called()
	c, ok := args.Get(0).(context.Context)
	if !ok {
		panic("arg needs to be context.Context")
	}
	return c
}

func (m *MockContext) SetContext(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockContext) Path() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Method() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Body() []byte {
	args := m.Called()
	return args.Get(0).([]byte)
}

func (m *MockContext) Status(code int) router.Context {
	m.Called(code)
	return m
}

func (m *MockContext) SendString(s string) error {
	args := m.Called(s)
	return args.Error(0)
}

func (m *MockContext) Send(b []byte) error {
	args := m.Called(b)
	return args.Error(0)
}

func (m *MockContext) JSON(code int, val any) error {
	args := m.Called(code, val)
	return args.Error(0)
}

func (m *MockContext) NoContent(code int) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockContext) Render(name string, bind any, layout ...string) error {
	if len(layout) > 0 {
		args := m.Called(name, bind, layout[0])
		return args.Error(0)
	}
	args := m.Called(name, bind)
	return args.Error(0)
}

func (m *MockContext) Redirect(path string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(path, status)
		return args.Error(0)
	}
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockContext) RedirectToRoute(name string, data router.ViewContext, status ...int) error {
	if len(status) > 0 {
		args := m.Called(name, data, status[0])
		return args.Error(0)
	}
	args := m.Called(name, data)
	return args.Error(0)
}

func (m *MockContext) RedirectBack(fallback string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(fallback, status)
		return args.Error(0)
	}
	args := m.Called(fallback)
	return args.Error(0)
}

func (m *MockContext) SetHeader(key, val string) router.Context {
	m.Called(key, val)
	return m
}

func (m *MockContext) Header(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Get(key string, defaultValue any) any {
	args := m.Called(key, defaultValue)
	return args.Get(0)
}

func (m *MockContext) GetBool(key string, defaultValue bool) bool {
	args := m.Called(key, defaultValue)
	return args.Bool(0)
}

func (m *MockContext) GetInt(key string, def int) int {
	args := m.Called(key, def)
	return args.Int(0)
}

func (m *MockContext) Set(key string, val any) {
	m.Called(key, val)
}

func (m *MockContext) Bind(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindJSON(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindXML(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindQuery(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) CookieParser(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) Cookie(cookie *router.Cookie) {
	m.Called(cookie)
}

func (m *MockContext) Cookies(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Param(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) ParamsInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Query(key string, defaultValue string) string {
	args := m.Called(key, defaultValue)
	return args.String(0)
}

func (m *MockContext) QueryInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Queries() map[string]string {
	args := m.Called()
	return args.Get(0).(map[string]string)
}

func (m *MockContext) GetString(key string, defaultValue string) string {
	args := m.Called(key, defaultValue)
	return args.String(0)
}

func (m *MockContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		m.Called(key, value[0])
		return nil
	}
	args := m.Called(key)
	return args.Get(0)
}

func (m *MockContext) OriginalURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) OnNext(callback func() error) {
	m.Called(callback)
}

func (m *MockContext) Referer() string {
	args := m.Called()
	return args.String(0)
}
