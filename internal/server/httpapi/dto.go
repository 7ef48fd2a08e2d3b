package httpapi

import (
	"time"

	"github.com/contactkeeper/contactkeeper/internal/server/models"
	"github.com/contactkeeper/contactkeeper/internal/server/services"
)

const birthdayLayout = "2006-01-02"

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RequestEmailRequest struct {
	Email string `json:"email"`
}

// UserResponse is the public view of a user. The password digest and the
// stored refresh token never leave the server.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func newTokenResponse(pair *services.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	}
}

type ContactRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Birthday  string `json:"birthday"`
	Notes     string `json:"notes"`
}

type ContactResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Birthday  string    `json:"birthday"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

func newContactResponse(c *models.Contact) ContactResponse {
	return ContactResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Birthday:  c.Birthday.Format(birthdayLayout),
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
	}
}

func newContactListResponse(list []*models.Contact) []ContactResponse {
	result := make([]ContactResponse, 0, len(list))
	for _, c := range list {
		result = append(result, newContactResponse(c))
	}
	return result
}
