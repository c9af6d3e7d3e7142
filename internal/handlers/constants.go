package handlers

import "time"

const (
	OAuthStateCookieName      = "oauth_state"
	OAuthProviderCookieName   = "oauth_provider"
	OAuthFamilyCodeCookieName = "oauth_family_code"
	oauthCookieTTL            = 10 * time.Minute

	RequestIDHeader = "X-Request-ID"

	ErrInvalidJSON          = "Invalid JSON body"
	ErrEmptyBody            = "Request body is required"
	ErrInvalidID            = "Invalid id"
	ErrUnauthorized         = "Unauthorized"
	ErrTooManyRequests      = "Too many requests"
	ErrInternalServerError  = "Internal server error"
	ErrNutritionUnavailable = "Nutrition service is unavailable"
	ErrNutritionTimeout     = "Nutrition service timed out"
	ErrNutritionUpstream    = "Nutrition service returned an error"
	ErrNutritionRequest     = "Nutrition service request failed"
	ErrNutritionCanceled    = "Nutrition lookup was canceled"
)
