package coffee_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/coffeeshop/pkg/coffeesdk"
	"github.com/aussiebroadwan/coffeeshop/pkg/jwtx"
	"github.com/aussiebroadwan/coffeeshop/pkg/jwtx/jwtxtest"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helpers for the coffee shop end-to-end tests. The
 * service runs in a container and trusts a JWKS file mounted into it, so
 * tokens are minted in-process with the matching private key.
 */

const (
	testImageName = "coffeeshop-test:latest"

	testIssuer    = "https://issuer.coffee.test/"
	testAudience  = "coffeeshop"
	jwksMountPath = "/etc/coffeeshop/jwks.json"
)

// TestMain builds the Docker image once before all tests and removes it
// after they complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Coffee Shop Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Coffee Shop Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/coffeeshop/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // the image might not exist
}

// shop is a running service plus the issuer key it trusts.
type shop struct {
	BaseURL string
	Client  *coffeesdk.SDKClient
	signer  *jwtx.Signer
}

// token mints a valid access token for sub with permissions. A nil slice
// leaves the permissions claim out.
func (s *shop) token(t *testing.T, sub string, permissions []string) string {
	t.Helper()

	claims := jwtx.NewAccessClaims(sub, testIssuer, []string{testAudience}, permissions, time.Hour, time.Now())
	tok, err := s.signer.Sign(claims)
	require.NoError(t, err)
	return tok
}

// expiredToken mints a token whose exp lies ago in the past.
func (s *shop) expiredToken(t *testing.T, sub string, permissions []string, ago time.Duration) string {
	t.Helper()

	claims := jwtx.NewAccessClaims(sub, testIssuer, []string{testAudience}, permissions, time.Hour, time.Now().Add(-ago-time.Hour))
	tok, err := s.signer.Sign(claims)
	require.NoError(t, err)
	return tok
}

// session wraps a token without client-side permission checks, so every
// request reaches the server.
func (s *shop) session(t *testing.T, token string) *coffeesdk.Session {
	t.Helper()

	client := *s.Client
	client.CheckPermissions = false
	sess, err := client.NewSession(token)
	require.NoError(t, err)
	return sess
}

// setupShop starts the service trusting a freshly generated RS256 key that
// is mounted as a JWKS file.
func setupShop(t *testing.T) *shop {
	t.Helper()

	signer := jwtxtest.NewSigner(t, jwtx.AlgorithmRS256, "e2e-key-1")

	doc, err := json.Marshal(jwtx.JWKS{Keys: []jwtx.JWK{signer.PublicJWK()}})
	require.NoError(t, err)
	jwksPath := filepath.Join(t.TempDir(), "jwks.json")
	require.NoError(t, os.WriteFile(jwksPath, doc, 0o644))

	baseURL := startContainer(t, map[string]string{"AUTH_JWKS_FILE": jwksMountPath}, []testcontainers.ContainerFile{{
		HostFilePath:      jwksPath,
		ContainerFilePath: jwksMountPath,
		FileMode:          0o644,
	}})

	return &shop{BaseURL: baseURL, Client: coffeesdk.NewSDKClient(baseURL), signer: signer}
}

// setupShopWithUnreachableKeys starts the service pointed at a JWKS URL
// nothing listens on.
func setupShopWithUnreachableKeys(t *testing.T) *shop {
	t.Helper()

	baseURL := startContainer(t, map[string]string{
		"AUTH_JWKS_URL":           "http://127.0.0.1:1/.well-known/jwks.json",
		"AUTH_JWKS_FETCH_TIMEOUT": "1s",
	}, nil)

	return &shop{
		BaseURL: baseURL,
		Client:  coffeesdk.NewSDKClient(baseURL),
		signer:  jwtxtest.NewSigner(t, jwtx.AlgorithmRS256, "e2e-key-1"),
	}
}

func startContainer(t *testing.T, env map[string]string, files []testcontainers.ContainerFile) string {
	t.Helper()
	ctx := context.Background()

	base := map[string]string{
		"AUTH_ISSUER":   testIssuer,
		"AUTH_AUDIENCE": testAudience,
		"DATABASE_FILE": "/data/coffee.db",
		"ENV":           "test",
		"LOG_LEVEL":     "info",
		"LOG_FORMAT":    "json",
		// Tests fire requests far faster than any barista.
		"RATELIMIT_PUBLIC_REQUESTS": "10000",
		"RATELIMIT_PUBLIC_BURST":    "1000",
		"RATELIMIT_STAFF_REQUESTS":  "10000",
		"RATELIMIT_STAFF_BURST":     "1000",
	}
	for k, v := range env {
		base[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          base,
		Files:        files,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

// requireAPIError asserts err is an APIError with status and code.
func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()

	var apiErr *coffeesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode, apiErr.Error())
	require.Equal(t, code, apiErr.Code, apiErr.Error())
}
