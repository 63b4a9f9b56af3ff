package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/domain"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/ports"
)

type contextKey string

const (
	UserIDKey  contextKey = "user_id"
	FarmIDKey  contextKey = "farm_id"
	sessionKey contextKey = "session_token"
	peerKey    contextKey = "peer_addr"
)

const farmIDParam = "farmId"

func userIDFrom(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(UserIDKey).(uuid.UUID)
	return id
}

func farmIDFrom(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(FarmIDKey).(uuid.UUID)
	return id
}

func sessionTokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(sessionKey).(string)
	return token
}

// urlID parses a uuid path parameter. label names the entity in the error message.
func urlID(r *http.Request, param, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, domain.Validation("Invalid " + label + " ID")
	}
	return id, nil
}

func pageFrom(r *http.Request) ports.Page {
	q := r.URL.Query()
	return ports.Page{
		Limit:  q.Get("limit"),
		Offset: q.Get("offset"),
	}
}
