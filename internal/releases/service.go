// Package releases creates annotated semantic-version release tags.
package releases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goversion "github.com/hashicorp/go-version"

	"github.com/temirov/wgit/internal/config"
	"github.com/temirov/wgit/internal/gitrepo"
	"github.com/temirov/wgit/internal/prompt"
	"github.com/temirov/wgit/internal/ui"
)

const (
	gitTagSubcommandConstant          = "tag"
	gitAnnotateFlagConstant           = "-a"
	gitMessageFlagConstant            = "-m"
	gitPushSubcommandConstant         = "push"
	gitRevParseSubcommandConstant     = "rev-parse"
	gitQuietFlagConstant              = "-q"
	gitVerifyFlagConstant             = "--verify"
	gitTagReferencePrefixConstant     = "refs/tags/"
	initialVersionConstant            = "0.0.0"
	versionTemplateConstant           = "%d.%d.%d"
	releaseMessageTemplateConstant    = "Release %s"
	gitExecutorMissingMessageConstant = "git executor not configured"
	prompterMissingMessageConstant    = "prompter not configured"
	invalidVersionTemplateConstant    = "invalid version %q: %w"
	invalidLatestTemplateConstant     = "latest tag %q is not a semantic version: %w"
	notNewerTemplateConstant          = "%w: %s is not newer than %s"
	tagExistsTemplateConstant         = "%w: %s"
	tagErrorTemplateConstant          = "failed to create tag %s: %w"
	pushErrorTemplateConstant         = "failed to push tag %s to %s: %w"
	versionNotNewerMessageConstant    = "release version must be newer than the latest tag"
	tagExistsMessageConstant          = "tag already exists"
	unknownBumpTemplateConstant       = "unknown version bump %q"
	bumpPromptTemplateConstant        = "Latest release is %s. Which version comes next?"
	confirmTemplateConstant           = "Create release tag %s?"
	dryRunTemplateConstant            = "Would create tag %s"
	createdTemplateConstant           = "Created tag %s"
	pushedTemplateConstant            = "Pushed %s to %s"
	skippedMessageConstant            = "Release cancelled"
	explicitOptionValueConstant       = "explicit"
	explicitOptionLabelConstant       = "Enter a version"
	explicitPromptConstant            = "Release version"
)

// Bump names a semantic version component to increment.
type Bump string

// Supported bumps.
const (
	BumpMajor Bump = Bump("major")
	BumpMinor Bump = Bump("minor")
	BumpPatch Bump = Bump("patch")
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrPrompterNotConfigured indicates the prompter dependency was missing.
var ErrPrompterNotConfigured = errors.New(prompterMissingMessageConstant)

// ErrVersionNotNewer indicates an explicit version at or below the latest tag.
var ErrVersionNotNewer = errors.New(versionNotNewerMessageConstant)

// ErrTagExists indicates the computed tag is already present.
var ErrTagExists = errors.New(tagExistsMessageConstant)

// ServiceDependencies enumerates collaborators required by the release service.
type ServiceDependencies struct {
	GitExecutor      gitrepo.GitExecutor
	Prompter         prompt.Prompter
	Renderer         *ui.Renderer
	Settings         config.ReleaseSettings
	DefaultRemote    string
	WorkingDirectory string
}

// Options configure a release. Version wins over Bump; with neither set the bump is prompted for.
type Options struct {
	Version   string
	Bump      Bump
	Push      bool
	DryRun    bool
	AssumeYes bool
}

// Result describes a created (or, for dry runs, planned) release.
type Result struct {
	PreviousTag string
	TagName     string
	Pushed      bool
}

// Service creates release tags.
type Service struct {
	repository    *gitrepo.RepositoryManager
	prompter      prompt.Prompter
	renderer      *ui.Renderer
	settings      config.ReleaseSettings
	defaultRemote string
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.Prompter == nil {
		return nil, ErrPrompterNotConfigured
	}
	repository, repositoryError := gitrepo.NewRepositoryManager(dependencies.GitExecutor, dependencies.WorkingDirectory)
	if repositoryError != nil {
		return nil, repositoryError
	}
	renderer := dependencies.Renderer
	if renderer == nil {
		renderer = ui.NewRenderer(nil, ui.NewPalette(false))
	}
	return &Service{
		repository:    repository,
		prompter:      dependencies.Prompter,
		renderer:      renderer,
		settings:      dependencies.Settings,
		defaultRemote: dependencies.DefaultRemote,
	}, nil
}

// Release tags HEAD with the next version and optionally pushes the tag.
func (service *Service) Release(executionContext context.Context, options Options) (Result, error) {
	previousTag := service.repository.LatestTag(executionContext, service.settings.TagPrefix+initialVersionConstant)
	current, currentError := goversion.NewVersion(strings.TrimPrefix(previousTag, service.settings.TagPrefix))
	if currentError != nil {
		return Result{}, fmt.Errorf(invalidLatestTemplateConstant, previousTag, currentError)
	}

	next, nextError := service.nextVersion(current, previousTag, options)
	if nextError != nil {
		return Result{}, nextError
	}

	tagName := service.settings.TagPrefix + next
	result := Result{PreviousTag: previousTag, TagName: tagName}
	if service.tagExists(executionContext, tagName) {
		return Result{}, fmt.Errorf(tagExistsTemplateConstant, ErrTagExists, tagName)
	}

	if options.DryRun {
		service.renderer.Info(fmt.Sprintf(dryRunTemplateConstant, tagName))
		return result, nil
	}

	if !options.AssumeYes {
		confirmed, confirmError := service.prompter.Confirm(fmt.Sprintf(confirmTemplateConstant, tagName), true)
		if confirmError != nil {
			return Result{}, confirmError
		}
		if !confirmed {
			service.renderer.Info(skippedMessageConstant)
			return Result{}, nil
		}
	}

	if _, tagError := service.repository.Run(executionContext, gitTagSubcommandConstant, gitAnnotateFlagConstant, tagName, gitMessageFlagConstant, fmt.Sprintf(releaseMessageTemplateConstant, tagName)); tagError != nil {
		return Result{}, fmt.Errorf(tagErrorTemplateConstant, tagName, tagError)
	}
	service.renderer.Success(fmt.Sprintf(createdTemplateConstant, tagName))

	if !options.Push && !service.settings.Push {
		return result, nil
	}
	remote := service.repository.DefaultRemote(executionContext, service.defaultRemote)
	if _, pushError := service.repository.RunNonInteractive(executionContext, gitPushSubcommandConstant, remote, tagName); pushError != nil {
		return Result{}, fmt.Errorf(pushErrorTemplateConstant, tagName, remote, pushError)
	}
	service.renderer.Success(fmt.Sprintf(pushedTemplateConstant, tagName, remote))
	result.Pushed = true
	return result, nil
}

func (service *Service) nextVersion(current *goversion.Version, previousTag string, options Options) (string, error) {
	explicit := strings.TrimSpace(options.Version)
	bump := options.Bump
	if len(explicit) == 0 && len(bump) == 0 {
		choices := []prompt.Option{
			{Label: string(BumpPatch), Value: string(BumpPatch), Hint: BumpVersion(current, BumpPatch)},
			{Label: string(BumpMinor), Value: string(BumpMinor), Hint: BumpVersion(current, BumpMinor)},
			{Label: string(BumpMajor), Value: string(BumpMajor), Hint: BumpVersion(current, BumpMajor)},
			{Label: explicitOptionLabelConstant, Value: explicitOptionValueConstant},
		}
		selected, selectError := service.prompter.Select(fmt.Sprintf(bumpPromptTemplateConstant, previousTag), choices)
		if selectError != nil {
			return "", selectError
		}
		if selected != explicitOptionValueConstant {
			return BumpVersion(current, Bump(selected)), nil
		}
		entered, textError := service.prompter.Text(explicitPromptConstant, prompt.TextSettings{Validate: func(value string) error {
			_, parseError := service.parseExplicit(value)
			return parseError
		}})
		if textError != nil {
			return "", textError
		}
		explicit = strings.TrimSpace(entered)
	}

	if len(explicit) == 0 {
		if _, known := ParseBump(string(bump)); !known {
			return "", fmt.Errorf(unknownBumpTemplateConstant, bump)
		}
		return BumpVersion(current, bump), nil
	}

	requested, parseError := service.parseExplicit(explicit)
	if parseError != nil {
		return "", parseError
	}
	if !requested.GreaterThan(current) {
		return "", fmt.Errorf(notNewerTemplateConstant, ErrVersionNotNewer, requested.Original(), previousTag)
	}
	return requested.Original(), nil
}

func (service *Service) parseExplicit(value string) (*goversion.Version, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), service.settings.TagPrefix)
	parsed, parseError := goversion.NewVersion(trimmed)
	if parseError != nil {
		return nil, fmt.Errorf(invalidVersionTemplateConstant, value, parseError)
	}
	return parsed, nil
}

func (service *Service) tagExists(executionContext context.Context, tagName string) bool {
	result, verifyError := service.repository.Run(executionContext, gitRevParseSubcommandConstant, gitQuietFlagConstant, gitVerifyFlagConstant, gitTagReferencePrefixConstant+tagName)
	return verifyError == nil && len(strings.TrimSpace(result.StandardOutput)) > 0
}

// ParseBump converts a bump name; the second result reports whether it is known.
func ParseBump(value string) (Bump, bool) {
	switch Bump(strings.ToLower(strings.TrimSpace(value))) {
	case BumpMajor:
		return BumpMajor, true
	case BumpMinor:
		return BumpMinor, true
	case BumpPatch:
		return BumpPatch, true
	}
	return "", false
}

// BumpVersion increments one component of the version and drops any prerelease or metadata.
func BumpVersion(current *goversion.Version, bump Bump) string {
	segments := current.Segments()
	for len(segments) < 3 {
		segments = append(segments, 0)
	}
	major, minor, patch := segments[0], segments[1], segments[2]
	switch bump {
	case BumpMajor:
		major, minor, patch = major+1, 0, 0
	case BumpMinor:
		minor, patch = minor+1, 0
	default:
		patch++
	}
	return fmt.Sprintf(versionTemplateConstant, major, minor, patch)
}
