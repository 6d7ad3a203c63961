//go:build integration

package integration

import (
	"context"
	"os/exec"
	"testing"
)

// restartStorefront bounces the service; cart state must come back from the persistent store.
func restartStorefront(t *testing.T, ctx context.Context) {
	t.Helper()

	cmd := exec.CommandContext(ctx, "docker", "compose", "restart", "storefront")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("docker compose restart storefront failed: %v\n%s", err, string(out))
	}
}
