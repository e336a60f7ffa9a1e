package terraform

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/rios0rios0/autogroup/internal/domain/entities"
	"github.com/rios0rios0/autogroup/internal/domain/repositories"
)

const lockfileName = ".terraform.lock.hcl"

var (
	providerPattern = regexp.MustCompile(`(?s)provider\s+"([^"]+)"\s*\{[^}]*?version\s*=\s*"([^"]+)"`)
	modulePattern   = regexp.MustCompile(`(?s)module\s+"([^"]+)"\s*\{[^}]*source\s*=\s*"([^"]+)"`)
	refPattern      = regexp.MustCompile(`\?ref=([^&\s"]+)`)
	looseRefPattern = regexp.MustCompile(`ref=([^&\s"]+)`)
	stripRefPattern = regexp.MustCompile(`\?ref=[^&\s"]+`)
)

// LockfileRepository reads provider versions from .terraform.lock.hcl and Git
// module refs from .tf files.
type LockfileRepository struct{}

var _ repositories.DriftDetectorRepository = (*LockfileRepository)(nil)

// NewLockfileRepository creates a new Terraform lockfile reader.
func NewLockfileRepository() *LockfileRepository {
	return &LockfileRepository{}
}

func (r *LockfileRepository) Name() string { return "terraform" }

// Supports returns true for the provider lockfile and Terraform sources.
func (r *LockfileRepository) Supports(fileName string) bool {
	return fileName == lockfileName || strings.HasSuffix(fileName, ".tf")
}

// Dependencies returns provider versions (keyed by provider address) or module
// refs (keyed by module source without the ref).
func (r *LockfileRepository) Dependencies(file *entities.DependencyFile) (map[string]string, error) {
	if file.Name == lockfileName {
		return parseProviders(file.Content, file.Path())
	}
	return parseModules(file.Content, file.Path())
}

func parseProviders(content, filePath string) (map[string]string, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL([]byte(content), filePath)
	if diags.HasErrors() {
		// Try regex-based parsing as fallback
		return scanWithRegex(providerPattern, content, func(_, version string) string { return version }), nil
	}

	bodyContent, _, diags := file.Body.PartialContent(&hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "provider", LabelNames: []string{"source"}},
		},
	})
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to read providers from %s: %s", filePath, diags.Error())
	}

	versions := make(map[string]string, len(bodyContent.Blocks))
	for _, block := range bodyContent.Blocks {
		attrs, _, attrDiags := block.Body.PartialContent(&hcl.BodySchema{
			Attributes: []hcl.AttributeSchema{{Name: "version"}},
		})
		if attrDiags.HasErrors() {
			continue
		}
		if version, ok := stringAttribute(attrs.Attributes, "version"); ok {
			versions[block.Labels[0]] = version
		}
	}
	return versions, nil
}

func parseModules(content, filePath string) (map[string]string, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL([]byte(content), filePath)
	if diags.HasErrors() {
		return scanWithRegex(modulePattern, content, func(_, source string) string {
			return extractVersion(source)
		}), nil
	}

	bodyContent, _, diags := file.Body.PartialContent(&hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "module", LabelNames: []string{"name"}},
		},
	})
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to read modules from %s: %s", filePath, diags.Error())
	}

	versions := make(map[string]string)
	for _, block := range bodyContent.Blocks {
		attrs, _, attrDiags := block.Body.PartialContent(&hcl.BodySchema{
			Attributes: []hcl.AttributeSchema{{Name: "source"}},
		})
		if attrDiags.HasErrors() {
			continue
		}
		source, ok := stringAttribute(attrs.Attributes, "source")
		if !ok || !isGitModule(source) {
			continue
		}
		if version := extractVersion(source); version != "" {
			versions[removeVersionFromSource(source)] = version
		}
	}
	return versions, nil
}

func stringAttribute(attrs hcl.Attributes, name string) (string, bool) {
	attr, ok := attrs[name]
	if !ok {
		return "", false
	}
	value, diags := attr.Expr.Value(&hcl.EvalContext{})
	if diags.HasErrors() || value.IsNull() || value.Type() != cty.String {
		return "", false
	}
	return value.AsString(), true
}

// scanWithRegex is a fallback parser for content HCL cannot parse.
func scanWithRegex(pattern *regexp.Regexp, content string, version func(label, value string) string) map[string]string {
	versions := make(map[string]string)
	for _, match := range pattern.FindAllStringSubmatch(content, -1) {
		label, value := match[1], match[2]
		if pattern == modulePattern {
			if !isGitModule(value) {
				continue
			}
			label = removeVersionFromSource(value)
		}
		if v := version(label, value); v != "" {
			versions[label] = v
		}
	}
	return versions
}

// isGitModule checks if the source URL is a Git-based module
func isGitModule(source string) bool {
	return strings.HasPrefix(source, "git::") ||
		strings.HasPrefix(source, "git@") ||
		strings.Contains(source, "github.com") ||
		strings.Contains(source, "gitlab.com") ||
		strings.Contains(source, "bitbucket.org") ||
		strings.Contains(source, "dev.azure.com") ||
		strings.Contains(source, "_git/")
}

// extractVersion extracts the version/tag from a Git module source
func extractVersion(source string) string {
	if matches := refPattern.FindStringSubmatch(source); len(matches) > 1 {
		return matches[1]
	}
	if matches := looseRefPattern.FindStringSubmatch(source); len(matches) > 1 {
		return matches[1]
	}
	return ""
}

// removeVersionFromSource removes the ?ref= parameter from source URL
func removeVersionFromSource(source string) string {
	return stripRefPattern.ReplaceAllString(source, "")
}
