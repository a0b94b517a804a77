package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// A workspace owns uploaded templates, and every /item request acts on
// exactly one. RequireAuth takes it from the session cookie and
// FixedWorkspace pins it, usually to DefaultWorkspaceID.
//
// uuid.Nil is never a request workspace: it owns the built-in templates,
// so a context carrying it reads as unauthenticated.

// DefaultWorkspaceID is the workspace shared by all callers when
// REQUIRE_AUTH is off. Templates uploaded in that mode land here.
var DefaultWorkspaceID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// ErrWorkspaceIDNotFound means the request carries no usable workspace.
// It maps to 401.
var ErrWorkspaceIDNotFound = errors.New("workspace_id not found in context")

type workspaceKey struct{}

// WithWorkspaceID scopes ctx to workspaceID.
func WithWorkspaceID(ctx context.Context, workspaceID uuid.UUID) context.Context {
	return context.WithValue(ctx, workspaceKey{}, workspaceID)
}

// WorkspaceIDFromCtx returns the workspace set by WithWorkspaceID, or
// ErrWorkspaceIDNotFound when none is set or it is the built-in owner.
func WorkspaceIDFromCtx(ctx context.Context) (uuid.UUID, error) {
	workspaceID, _ := ctx.Value(workspaceKey{}).(uuid.UUID)
	if workspaceID == uuid.Nil {
		return uuid.Nil, ErrWorkspaceIDNotFound
	}
	return workspaceID, nil
}
