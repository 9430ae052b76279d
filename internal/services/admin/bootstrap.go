package admin

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/uptrace/bun"

	"github.com/gestormatic/loginapi/internal/auth"
	"github.com/gestormatic/loginapi/internal/config"
)

// Bootstrap seeds the initial administrator described by cfg: every named
// role is created (or reactivated) in the tenant, then a claims sync grants
// them to the subject. This breaks the chicken-and-egg problem of an
// admin-gated admin API with no admin yet.
//
// The run is idempotent: roles upsert by (tenant, name), the user upserts
// by (tenant, subject), and the grant set is replaced wholesale, so
// repeated restarts produce no duplicate rows.
func Bootstrap(ctx context.Context, cfg config.BootstrapConfig, db *bun.DB, claims *ClaimsService) error {
	if !cfg.Enabled {
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Runs outside the HTTP stack, so the tenant binding the request
	// middleware would provide has to happen here.
	ctx = auth.WithTenant(ctx, cfg.TenantID)

	roles := cfg.Roles
	if len(roles) == 0 {
		roles = []string{"admin"}
	}

	roleService := NewRoleService(db)
	for _, name := range roles {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if _, err := roleService.Create(ctx, cfg.TenantID, name); err != nil {
			return fmt.Errorf("ensure bootstrap role %s: %w", name, err)
		}
	}

	result, err := claims.SetClaims(ctx, cfg.Subject, cfg.TenantID, roles)
	if err != nil {
		return fmt.Errorf("bootstrap claims sync: %w", err)
	}

	log.Printf("bootstrapped administrator %s in tenant %s with roles %v", result.Subject, result.TenantID, result.Roles)
	return nil
}