// controllers/srv.go
package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/albt6x/rent-a-camera/app"
	"github.com/albt6x/rent-a-camera/cart"
	"github.com/albt6x/rent-a-camera/config"
	"github.com/albt6x/rent-a-camera/db"
	"github.com/albt6x/rent-a-camera/logging"
	"github.com/albt6x/rent-a-camera/models"
	"github.com/albt6x/rent-a-camera/rental"
	"github.com/albt6x/rent-a-camera/session"
	"github.com/albt6x/rent-a-camera/uploads"
)

type Srv struct {
	Repo    *db.Repo
	Engine  *rental.Engine
	AppSess *session.AppSessionStore
	Carts   *cart.Store
	Uploads *uploads.Store
	Cfg     config.Config
	Log     *slog.Logger
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:    a.Repo,
		Engine:  a.Engine,
		AppSess: a.AppSessions(),
		Carts:   a.Carts(),
		Uploads: a.Uploads,
		Cfg:     a.Config,
		Log:     logging.New("http"),
	}
}

// --- helpers ---

func (s *Srv) setAppCookie(w http.ResponseWriter, sessionID string, maxAge time.Duration) {
	secure := strings.HasPrefix(s.Cfg.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   int(maxAge / time.Second),
	})
}

func (s *Srv) clearAppCookie(w http.ResponseWriter) {
	secure := strings.HasPrefix(s.Cfg.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   -1,
	})
}

func (s *Srv) issueSession(ctx context.Context, w http.ResponseWriter, u *models.User) error {
	if err := s.Repo.TouchUserLogin(ctx, u.ID); err != nil {
		s.Log.Warn("touch login failed", "user", u.ID, "err", err)
	}
	id := uuid.NewString()
	if err := s.AppSess.Create(ctx, id, u.ID, u.Role); err != nil {
		return err
	}
	s.setAppCookie(w, id, s.Cfg.SessionTTL)
	return nil
}
