package dashboard

import (
	"time"

	"github.com/dmitrymomot/sbauth/core/handler"
	"github.com/dmitrymomot/sbauth/core/logger"
	"github.com/dmitrymomot/sbauth/core/response"
	"github.com/dmitrymomot/sbauth/core/supabase"
	"github.com/dmitrymomot/sbauth/middleware"
)

// sessionView is the token-free part of a session returned by /api/session.
type sessionView struct {
	Authenticated bool       `json:"authenticated"`
	UserID        string     `json:"user_id,omitempty"`
	Email         string     `json:"email,omitempty"`
	TokenType     string     `json:"token_type,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

func (a *App) home(ctx *Context) handler.Response {
	return response.WithNoStore(response.Templ(homePage(a.config.AppName, ctx.User(), ctx.Session())))
}

func (a *App) session(ctx *Context) handler.Response {
	view := sessionView{}
	if s := ctx.Session(); s != nil {
		view.Authenticated = true
		view.TokenType = s.TokenType
		if exp := s.ExpiresAtTime(); !exp.IsZero() {
			view.ExpiresAt = &exp
		}
	}
	if u := ctx.User(); u != nil {
		view.UserID = u.ID.String()
		view.Email = u.Email
	}
	return response.WithNoStore(response.JSON(view))
}

func (a *App) user(ctx *Context) handler.Response {
	return response.WithNoStore(response.JSON(ctx.User()))
}

// claims decodes the access token without a signature check.
func (a *App) claims(ctx *Context) handler.Response {
	claims, err := ctx.Auth().GetClaims(ctx)
	if err != nil {
		return response.Error(response.ErrUnauthorized.WithError(err))
	}
	return response.WithNoStore(response.JSON(claims))
}

func (a *App) verifiedClaims(ctx *Context) handler.Response {
	claims, _ := middleware.GetJWTClaims(ctx)
	return response.WithNoStore(response.JSON(claims))
}

func (a *App) signOut(ctx *Context) handler.Response {
	scope := supabase.SignOutScope(ctx.Request().FormValue("scope"))
	switch scope {
	case "", supabase.SignOutGlobal, supabase.SignOutLocal, supabase.SignOutOthers:
	default:
		return response.Error(response.ErrBadRequest.WithMessage("unknown sign out scope"))
	}

	if client := ctx.Auth(); client != nil {
		if err := client.SignOut(ctx, scope); err != nil {
			a.logger.WarnContext(ctx, "sign out failed", logger.Error(err))
			return response.Error(response.ErrBadGateway.WithError(err))
		}
	}
	return response.RedirectSeeOther("/")
}
