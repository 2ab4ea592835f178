// Package aws loads shared AWS configuration and caches the service clients
// the S3-backed store needs.
package aws

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"gopkg.in/ini.v1"
)

// ClientProvider carrega configs por perfil e mantém um cache de clientes.
type ClientProvider struct {
	cfgCache    map[string]aws.Config
	clientCache map[string]interface{}
	mu          sync.Mutex
}

// NewClientProvider cria um novo ClientProvider.
func NewClientProvider() *ClientProvider {
	return &ClientProvider{
		cfgCache:    make(map[string]aws.Config),
		clientCache: make(map[string]interface{}),
	}
}

// Config returns the shared config for profile. An empty profile uses the default chain.
func (p *ClientProvider) Config(ctx context.Context, profile string) (aws.Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cfg, ok := p.cfgCache[profile]; ok {
		return cfg, nil
	}

	var opts []func(*config.LoadOptions) error
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config for profile %q: %w", profile, err)
	}

	p.cfgCache[profile] = cfg
	return cfg, nil
}

func (p *ClientProvider) client(ctx context.Context, profile, region, service string) (interface{}, error) {
	cacheKey := fmt.Sprintf("%s-%s-%s", profile, region, service)

	p.mu.Lock()
	if client, ok := p.clientCache[cacheKey]; ok {
		p.mu.Unlock()
		return client, nil
	}
	p.mu.Unlock()

	cfg, err := p.Config(ctx, profile)
	if err != nil {
		return nil, err
	}

	regionalCfg := cfg.Copy()
	if region != "" {
		regionalCfg.Region = region
	}

	var client interface{}
	switch service {
	case "sts":
		client = sts.NewFromConfig(regionalCfg)
	case "s3":
		client = s3.NewFromConfig(regionalCfg)
	default:
		return nil, fmt.Errorf("unsupported service: %s", service)
	}

	p.mu.Lock()
	p.clientCache[cacheKey] = client
	p.mu.Unlock()

	return client, nil
}

// S3 returns the cached S3 client for profile and region.
func (p *ClientProvider) S3(ctx context.Context, profile, region string) (*s3.Client, error) {
	client, err := p.client(ctx, profile, region, "s3")
	if err != nil {
		return nil, err
	}
	return client.(*s3.Client), nil
}

// AccountID calls sts:GetCallerIdentity, which fails fast on missing or expired credentials.
func (p *ClientProvider) AccountID(ctx context.Context, profile, region string) (string, error) {
	client, err := p.client(ctx, profile, region, "sts")
	if err != nil {
		return "", err
	}

	result, err := client.(*sts.Client).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("error getting account ID for profile %q: %w", profile, err)
	}
	return aws.ToString(result.Account), nil
}

// Profiles lista os perfis de ~/.aws/credentials e ~/.aws/config.
func Profiles(homeDir string) []string {
	seen := make(map[string]struct{})
	for _, name := range sectionNames(filepath.Join(homeDir, ".aws", "credentials"), false) {
		seen[name] = struct{}{}
	}
	for _, name := range sectionNames(filepath.Join(homeDir, ".aws", "config"), true) {
		seen[name] = struct{}{}
	}

	if len(seen) == 0 {
		seen["default"] = struct{}{}
	}

	result := make([]string, 0, len(seen))
	for name := range seen {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// sectionNames returns the profile sections of a shared AWS file. In the config
// file every profile but default is written "[profile name]"; other section
// kinds there (sso-session, services) are not profiles.
func sectionNames(path string, configFile bool) []string {
	file, err := ini.Load(path)
	if err != nil {
		return nil
	}

	var names []string
	for _, section := range file.Sections() {
		name := strings.TrimSpace(section.Name())
		if name == ini.DefaultSection {
			continue
		}
		if configFile && name != "default" {
			rest, ok := strings.CutPrefix(name, "profile ")
			if !ok {
				continue
			}
			name = strings.TrimSpace(rest)
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// HasProfile reports whether profile is configured under homeDir.
func HasProfile(homeDir, profile string) bool {
	for _, p := range Profiles(homeDir) {
		if p == profile {
			return true
		}
	}
	return false
}
