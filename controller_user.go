package bankgate

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
	"github.com/nyaruka/phonenumbers"
)

const dateOfBirthLayout = "2006-01-02"

// UserController serves the authenticated regular-account surface: own
// profile, contact changes, contact verification, and the business profile.
type UserController struct {
	resolver     *Resolver
	users        UserStore
	business     BusinessStore
	logger       Logger
	errorHandler ErrorHandler
}

func NewUserController(resolver *Resolver, users UserStore, business BusinessStore) *UserController {
	return &UserController{
		resolver:     resolver,
		users:        users,
		business:     business,
		logger:       defLogger{},
		errorHandler: NewJSONErrorHandler(nil),
	}
}

func (u *UserController) WithLogger(logger Logger) *UserController {
	if logger != nil {
		u.logger = logger
	}
	return u
}

func (u *UserController) WithErrorHandler(handler ErrorHandler) *UserController {
	if handler != nil {
		u.errorHandler = handler
	}
	return u
}

// RegisterRoutes mounts the regular-account surface. Every route requires a
// regular principal; the business routes additionally require the business
// sub-role inside their handlers.
func (u *UserController) RegisterRoutes(app RouteRegistrar, guard *AccessGuard) {
	regular := guard.RequireAccountTypes(AccountTypeRegular)

	app.Get("/users/me", wrapHandler(u.Me, u.errorHandler), regular)
	app.Patch("/users/me", wrapHandler(u.UpdateMe, u.errorHandler), regular)
	app.Post("/users/me/verification-code", wrapHandler(u.SendVerificationCode, u.errorHandler), regular)
	app.Post("/users/me/verify", wrapHandler(u.VerifyAttribute, u.errorHandler), regular)
	app.Post("/users/me/business", wrapHandler(u.CreateBusinessProfile, u.errorHandler), regular)
	app.Put("/users/me/business", wrapHandler(u.UpdateBusinessProfile, u.errorHandler), regular)
}

// Me returns the account behind the request, with the business profile
// attached for business sub-role accounts.
func (u *UserController) Me(ctx router.Context) error {
	user, err := RequireUser(ctx, "")
	if err != nil {
		return err
	}

	if user.SubRole == SubRoleBusiness && user.BusinessProfile == nil {
		profile, err := u.business.FindByUserID(ctx.Context(), user.ID)
		if err == nil {
			user.BusinessProfile = profile
		} else if !repository.IsRecordNotFound(err) {
			return err
		}
	}

	return ctx.JSON(router.StatusOK, user)
}

// UpdateMeRequest is a partial self-update. Contact and password changes go
// through the identity provider; the rest lands on the local row.
type UpdateMeRequest struct {
	Email       string `json:"email"`
	Phone       string `json:"phone_number"`
	NewPassword string `json:"new_password"`
	OldPassword string `json:"old_password"`

	FirstName   string `json:"first_name"`
	MiddleName  string `json:"middle_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
	SubRole     string `json:"sub_role"`
	Region      string `json:"region"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Postcode    string `json:"postcode"`
}

func (r UpdateMeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Phone, validation.By(validPhoneNumber)),
		validation.Field(&r.NewPassword, validation.Length(8, 100)),
		validation.Field(&r.DateOfBirth, validation.Date(dateOfBirthLayout)),
		validation.Field(&r.SubRole, validation.In(SubRoleIndividual, SubRoleBusiness)),
		validation.Field(&r.FirstName, validation.Length(0, 200)),
		validation.Field(&r.LastName, validation.Length(0, 200)),
	)
}

func (u *UserController) UpdateMe(ctx router.Context) error {
	user, err := RequireUser(ctx, "")
	if err != nil {
		return err
	}

	token, err := CurrentToken(ctx)
	if err != nil {
		return err
	}

	payload := new(UpdateMeRequest)
	if err := ctx.Bind(payload); err != nil {
		return err
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	if payload.NewPassword != "" {
		if err := u.resolver.ChangePassword(ctx.Context(), token, payload.NewPassword, payload.OldPassword); err != nil {
			return err
		}
	}

	contact := ContactUpdate{Email: payload.Email, Phone: payload.Phone}
	if !contact.Empty() {
		updated, err := u.resolver.UpdateContact(ctx.Context(), token, contact)
		if err != nil {
			return err
		}
		if updated != nil {
			user = updated
		}
	}

	if payload.FirstName != "" {
		user.FirstName = payload.FirstName
	}
	if payload.MiddleName != "" {
		user.MiddleName = payload.MiddleName
	}
	if payload.LastName != "" {
		user.LastName = payload.LastName
	}
	if payload.SubRole != "" {
		user.SubRole = payload.SubRole
	}
	if payload.Region != "" {
		user.Region = payload.Region
	}
	if payload.Country != "" {
		user.Country = payload.Country
	}
	if payload.City != "" {
		user.City = payload.City
	}
	if payload.Postcode != "" {
		user.Postcode = payload.Postcode
	}
	if payload.DateOfBirth != "" {
		dob, err := time.Parse(dateOfBirthLayout, payload.DateOfBirth)
		if err == nil {
			user.DateOfBirth = &dob
		}
	}

	updated, err := u.users.Update(ctx.Context(), user)
	if err != nil {
		return err
	}

	return ctx.JSON(router.StatusOK, updated)
}

// AttributeRequest names one of the two verifiable contact channels.
type AttributeRequest struct {
	Attribute string `json:"attribute"`
}

func (r AttributeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Attribute, validation.Required, validation.In(AttributeEmail, AttributePhone)),
	)
}

func (u *UserController) SendVerificationCode(ctx router.Context) error {
	token, err := CurrentToken(ctx)
	if err != nil {
		return err
	}

	payload := new(AttributeRequest)
	if err := ctx.Bind(payload); err != nil {
		return err
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	if err := u.resolver.AttributeVerificationCode(ctx.Context(), token, payload.Attribute); err != nil {
		return err
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"sent": true,
	})
}

// VerifyAttributeRequest submits the delivered verification code.
type VerifyAttributeRequest struct {
	Attribute string `json:"attribute"`
	Code      string `json:"code"`
}

func (r VerifyAttributeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Attribute, validation.Required, validation.In(AttributeEmail, AttributePhone)),
		validation.Field(&r.Code, validation.Required, validation.Length(4, 10), is.Digit),
	)
}

func (u *UserController) VerifyAttribute(ctx router.Context) error {
	token, err := CurrentToken(ctx)
	if err != nil {
		return err
	}

	payload := new(VerifyAttributeRequest)
	if err := ctx.Bind(payload); err != nil {
		return err
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	user, err := u.resolver.VerifyAttribute(ctx.Context(), token, payload.Code, payload.Attribute)
	if err != nil {
		return err
	}

	return ctx.JSON(router.StatusOK, user)
}

// BusinessProfileRequest creates or updates the business profile of a
// business sub-role account.
type BusinessProfileRequest struct {
	LegalType string `json:"legal_type"`
	Name      string `json:"name"`
	Position  string `json:"position"`
	Region    string `json:"region"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Postcode  string `json:"postcode"`
	Industry  string `json:"industry"`
	Website   string `json:"website"`
	Size      string `json:"size"`
}

func (r BusinessProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Position, validation.In(PositionDirector, PositionEmployee, PositionOwner)),
		validation.Field(&r.Website, is.URL),
	)
}

func (r BusinessProfileRequest) apply(record *BusinessProfile) {
	record.LegalType = r.LegalType
	record.Name = r.Name
	record.Position = r.Position
	record.Region = r.Region
	record.Address = r.Address
	record.City = r.City
	record.Postcode = r.Postcode
	record.Industry = r.Industry
	record.Website = r.Website
	record.Size = r.Size
}

func (u *UserController) CreateBusinessProfile(ctx router.Context) error {
	user, err := RequireUser(ctx, SubRoleBusiness)
	if err != nil {
		return err
	}

	payload := new(BusinessProfileRequest)
	if err := ctx.Bind(payload); err != nil {
		return err
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	if _, err := u.business.FindByUserID(ctx.Context(), user.ID); err == nil {
		return ErrBusinessProfileExists
	} else if !repository.IsRecordNotFound(err) {
		return err
	}

	record := &BusinessProfile{UserID: user.ID}
	payload.apply(record)

	created, err := u.business.Create(ctx.Context(), record)
	if err != nil {
		return err
	}

	return ctx.JSON(router.StatusCreated, created)
}

func (u *UserController) UpdateBusinessProfile(ctx router.Context) error {
	user, err := RequireUser(ctx, SubRoleBusiness)
	if err != nil {
		return err
	}

	payload := new(BusinessProfileRequest)
	if err := ctx.Bind(payload); err != nil {
		return err
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	record, err := u.business.FindByUserID(ctx.Context(), user.ID)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrBusinessProfileNotFound
		}
		return err
	}

	payload.apply(record)

	updated, err := u.business.Update(ctx.Context(), record)
	if err != nil {
		return err
	}

	return ctx.JSON(router.StatusOK, updated)
}

func validPhoneNumber(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	num, err := phonenumbers.Parse(s, "")
	if err != nil {
		return fmt.Errorf("must be an international phone number: %w", err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return fmt.Errorf("must be a valid phone number")
	}
	return nil
}
