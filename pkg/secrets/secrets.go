package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"go.uber.org/zap"

	"projecttracker/pkg/config"
)

// ErrSecretNotFound 密钥不存在或为空
var ErrSecretNotFound = errors.New("secret not found")

// Store 按名称读取密钥
type Store interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// New 根据配置选择密钥来源
// provider 为 none 时返回 nil，调用方改用 DB 配置拼连接串
func New(cfg config.VaultConfig, configDir string, logger *zap.Logger) (Store, error) {
	switch strings.ToLower(cfg.Provider) {
	case "azure":
		logger.Info("Using Azure Key Vault secret store", zap.String("vault_url", cfg.URL))
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create azure credential: %w", err)
		}
		return NewAzureStore(cfg.URL, cred)
	case "env":
		values := map[string]string{}
		secretsFile := filepath.Join(configDir, "secrets.env")
		if _, err := os.Stat(secretsFile); err == nil {
			values, err = config.LoadEnvFile(secretsFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load secrets.env: %w", err)
			}
		}
		logger.Info("Using environment secret store", zap.Int("file_entries", len(values)))
		return NewEnvStore(values), nil
	case "", "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown vault provider %q", cfg.Provider)
	}
}

// AzureStore 从 Azure Key Vault 读取最新版本的密钥
type AzureStore struct {
	client *azsecrets.Client
}

// NewAzureStore 创建 Key Vault 客户端
func NewAzureStore(vaultURL string, cred azcore.TokenCredential) (*AzureStore, error) {
	if vaultURL == "" {
		return nil, errors.New("vault url is required")
	}
	client, err := azsecrets.NewClient(vaultURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create key vault client: %w", err)
	}
	return &AzureStore{client: client}, nil
}

func (s *AzureStore) GetSecret(ctx context.Context, name string) (string, error) {
	// 空版本号表示最新版本
	resp, err := s.client.GetSecret(ctx, name, "", nil)
	if err != nil {
		return "", fmt.Errorf("failed to get secret %q: %w", name, err)
	}
	if resp.Value == nil || *resp.Value == "" {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
	}
	return *resp.Value, nil
}

// EnvStore 本地开发用：先查进程环境变量，再查 secrets.env
type EnvStore struct {
	values map[string]string
}

func NewEnvStore(values map[string]string) *EnvStore {
	if values == nil {
		values = map[string]string{}
	}
	return &EnvStore{values: values}
}

func (s *EnvStore) GetSecret(_ context.Context, name string) (string, error) {
	key := EnvName(name)
	if v := os.Getenv(key); v != "" {
		return v, nil
	}
	if v := s.values[key]; v != "" {
		return v, nil
	}
	if v := s.values[name]; v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
}

// EnvName 把密钥名转换为环境变量名，例如 db-conn -> DB_CONN
func EnvName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
