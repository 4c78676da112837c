package accesscontrol

//go:generate go run go.uber.org/mock/mockgen -source=./accesscontrol.go -destination=./mocks/accesscontrol_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"motel/infras/otel"
	userModel "motel/internal/domains/user/model"
	userRepo "motel/internal/domains/user/repository"
	"motel/permissions"
	"motel/shared"
	"motel/shared/constant"
	"motel/shared/failure"
)

// Actor is the authenticated caller as persisted right now, not as claimed
// by the token. Role changes between token issuance and request execution are
// therefore always honored.
type Actor struct {
	ID       string
	Username string
	Role     permissions.Role
}

// Guard is the single authorization authority consulted by every mutating
// service operation.
type Guard interface {
	Actor(ctx context.Context) (Actor, error)
	Require(ctx context.Context, capability permissions.Capability) (Actor, error)
	RequireManage(ctx context.Context, target permissions.Role) (Actor, error)
}

type guardImpl struct {
	users userRepo.User
	otel  otel.Otel
}

func New(users userRepo.User, otel otel.Otel) Guard {
	return &guardImpl{
		users: users,
		otel:  otel,
	}
}

// Actor resolves the caller from the request context against the user store.
func (g *guardImpl) Actor(ctx context.Context) (Actor, error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelServiceScopeName, "accesscontrol.Actor")
	defer scope.End()

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == constant.Empty {
		return Actor{}, failure.Unauthorized("missing authenticated user") //nolint:wrapcheck
	}

	user, err := g.users.Get(ctx, shared.FilterByID(userID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve actor")

		return Actor{}, fmt.Errorf("failed to resolve actor: %w", err)
	}

	if user.ID == constant.Empty || !user.Active {
		return Actor{}, failure.Unauthorized("unknown or inactive user") //nolint:wrapcheck
	}

	return Actor{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.RoleValue(),
	}, nil
}

// Require resolves the actor and checks the capability against the single
// canonical table.
func (g *guardImpl) Require(ctx context.Context, capability permissions.Capability) (Actor, error) {
	actor, err := g.Actor(ctx)
	if err != nil {
		return Actor{}, err
	}

	if !permissions.Can(actor.Role, capability) {
		log.Warn().
			Str("user", actor.Username).
			Str("role", string(actor.Role)).
			Str("capability", string(capability)).
			Msg("capability denied")

		return Actor{}, failure.ForbiddenError
	}

	return actor, nil
}

// RequireManage resolves the actor and checks that it may manage users
// holding the target role.
func (g *guardImpl) RequireManage(ctx context.Context, target permissions.Role) (Actor, error) {
	actor, err := g.Actor(ctx)
	if err != nil {
		return Actor{}, err
	}

	if !actor.Role.CanManage(target) {
		log.Warn().
			Str("user", actor.Username).
			Str("role", string(actor.Role)).
			Str("target_role", string(target)).
			Msg("user management denied")

		return Actor{}, failure.ForbiddenError
	}

	return actor, nil
}
