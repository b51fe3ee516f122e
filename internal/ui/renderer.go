package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/temirov/wgit/internal/gitrepo"
)

const (
	successPrefixConstant         = "✔ "
	warningPrefixConstant         = "! "
	errorPrefixConstant           = "✖ "
	branchLineTemplateConstant    = "On branch %s"
	upstreamLineTemplateConstant  = "Ahead %d, behind %d"
	noUpstreamMessageConstant     = "No upstream configured"
	cleanTreeMessageConstant      = "Working tree clean"
	statusSectionTemplateConstant = "%s (%d)"
	statusEntryTemplateConstant   = "  %s %s"
	renamedPathTemplateConstant   = "%s -> %s"
	searchSummaryTemplateConstant = "%d matches in %d files for %q"
	searchHitTemplateConstant     = "  %s %s"
	searchContextTemplateConstant = "  %s %s"
	listItemTemplateConstant      = "  %s"
	lineNumberWidthConstant       = 5
	currentBranchMarkerConstant   = "*"
	timestampLayoutConstant       = "2006-01-02 15:04"
	emptyCellConstant             = "-"
	yesCellConstant               = "yes"
)

var statusSections = []struct {
	category gitrepo.Category
	title    string
}{
	{category: gitrepo.CategoryStaged, title: "Staged"},
	{category: gitrepo.CategoryModified, title: "Modified"},
	{category: gitrepo.CategoryMixed, title: "Staged and modified"},
	{category: gitrepo.CategoryUntracked, title: "Untracked"},
}

// Renderer writes styled output for command handlers.
type Renderer struct {
	writer  io.Writer
	palette Palette
}

// NewRenderer constructs a renderer writing to the provided writer.
func NewRenderer(writer io.Writer, palette Palette) *Renderer {
	if writer == nil {
		writer = io.Discard
	}
	return &Renderer{writer: writer, palette: palette}
}

// Palette exposes the renderer's palette.
func (renderer *Renderer) Palette() Palette {
	return renderer.palette
}

// Writer exposes the renderer's destination.
func (renderer *Renderer) Writer() io.Writer {
	return renderer.writer
}

// Line writes text followed by a newline.
func (renderer *Renderer) Line(message string) {
	_, _ = fmt.Fprintln(renderer.writer, message)
}

// Success writes a positive outcome.
func (renderer *Renderer) Success(message string) {
	renderer.Line(renderer.palette.Success(successPrefixConstant + message))
}

// Warning writes a caution.
func (renderer *Renderer) Warning(message string) {
	renderer.Line(renderer.palette.Warning(warningPrefixConstant + message))
}

// Error writes a failure.
func (renderer *Renderer) Error(message string) {
	renderer.Line(renderer.palette.Error(errorPrefixConstant + message))
}

// Info writes a neutral message.
func (renderer *Renderer) Info(message string) {
	renderer.Line(renderer.palette.Info(message))
}

// Heading writes a section title.
func (renderer *Renderer) Heading(message string) {
	renderer.Line(renderer.palette.Heading(message))
}

// List writes a title followed by indented items.
func (renderer *Renderer) List(title string, items []string) {
	renderer.Heading(title)
	for _, item := range items {
		renderer.Line(fmt.Sprintf(listItemTemplateConstant, item))
	}
}

// Block writes multi-line text as-is, framed by the palette's muted style.
func (renderer *Renderer) Block(content string) {
	renderer.Line(renderer.palette.Muted(strings.TrimRight(content, "\n")))
}

// StatusSummary writes the branch, upstream divergence and entries grouped by category.
func (renderer *Renderer) StatusSummary(branch string, counts gitrepo.UpstreamCounts, entries []gitrepo.FileStatusEntry) {
	renderer.Heading(fmt.Sprintf(branchLineTemplateConstant, branch))
	if counts.HasUpstream {
		renderer.Line(fmt.Sprintf(upstreamLineTemplateConstant, counts.Ahead, counts.Behind))
	} else {
		renderer.Line(renderer.palette.Muted(noUpstreamMessageConstant))
	}
	if len(entries) == 0 {
		renderer.Success(cleanTreeMessageConstant)
		return
	}

	for _, section := range statusSections {
		sectionEntries := make([]gitrepo.FileStatusEntry, 0)
		for _, entry := range entries {
			if entry.Category == section.category {
				sectionEntries = append(sectionEntries, entry)
			}
		}
		if len(sectionEntries) == 0 {
			continue
		}
		renderer.Line(renderer.palette.Category(string(section.category), fmt.Sprintf(statusSectionTemplateConstant, section.title, len(sectionEntries))))
		for _, entry := range sectionEntries {
			path := entry.Path
			if len(entry.OriginalPath) > 0 {
				path = fmt.Sprintf(renamedPathTemplateConstant, entry.OriginalPath, entry.Path)
			}
			renderer.Line(fmt.Sprintf(statusEntryTemplateConstant, renderer.palette.Category(string(entry.Category), entry.StatusCode), path))
		}
	}
}

// SearchResults writes hits grouped by file.
func (renderer *Renderer) SearchResults(term string, groups []gitrepo.FileHits) {
	matchCount := 0
	for _, group := range groups {
		matchCount += gitrepo.MatchCount(group.Hits)
	}
	renderer.Info(fmt.Sprintf(searchSummaryTemplateConstant, matchCount, len(groups), term))
	for _, group := range groups {
		renderer.Heading(group.File)
		for _, hit := range group.Hits {
			lineNumber := text.AlignRight.Apply(strconv.Itoa(hit.Line), lineNumberWidthConstant)
			if hit.Context {
				renderer.Line(renderer.palette.Muted(fmt.Sprintf(searchContextTemplateConstant, lineNumber, hit.Text)))
				continue
			}
			renderer.Line(fmt.Sprintf(searchHitTemplateConstant, renderer.palette.Info(lineNumber), hit.Text))
		}
	}
}

// CommitTable writes commits as a table.
func (renderer *Renderer) CommitTable(records []gitrepo.CommitRecord) {
	tableWriter := renderer.newTable(table.Row{"HASH", "SUBJECT", "AUTHOR", "DATE"})
	for _, record := range records {
		timestamp := emptyCellConstant
		if !record.Timestamp.IsZero() {
			timestamp = record.Timestamp.Format(timestampLayoutConstant)
		}
		tableWriter.AppendRow(table.Row{renderer.palette.Warning(record.ShortHash), record.Subject, record.Author, timestamp})
	}
	renderer.Line(tableWriter.Render())
}

// BranchTable writes branches as a table, marking the current one.
func (renderer *Renderer) BranchTable(branches []gitrepo.Branch) {
	tableWriter := renderer.newTable(table.Row{"", "BRANCH", "KIND"})
	for _, branch := range branches {
		marker := ""
		name := branch.Name
		if branch.Current {
			marker = currentBranchMarkerConstant
			name = renderer.palette.Success(name)
		}
		kind := "local"
		if branch.Remote {
			kind = "remote"
		}
		tableWriter.AppendRow(table.Row{marker, name, kind})
	}
	renderer.Line(tableWriter.Render())
}

// RemoteTable writes remotes with their parsed location.
func (renderer *Renderer) RemoteTable(remotes []gitrepo.Remote) {
	tableWriter := renderer.newTable(table.Row{"REMOTE", "URL", "HOST", "REPOSITORY"})
	for _, remote := range remotes {
		host := emptyCellConstant
		repository := emptyCellConstant
		if parsed, parseError := gitrepo.ParseRemoteURL(remote.FetchURL); parseError == nil {
			if len(parsed.Host) > 0 {
				host = parsed.Host
			}
			repository = parsed.Slug()
		}
		remoteURL := remote.FetchURL
		if len(remote.PushURL) > 0 && remote.PushURL != remote.FetchURL {
			remoteURL = remote.FetchURL + " (push: " + remote.PushURL + ")"
		}
		tableWriter.AppendRow(table.Row{renderer.palette.Info(remote.Name), remoteURL, host, repository})
	}
	renderer.Line(tableWriter.Render())
}

// WorktreeTable writes worktrees as a table.
func (renderer *Renderer) WorktreeTable(worktrees []gitrepo.Worktree) {
	tableWriter := renderer.newTable(table.Row{"PATH", "BRANCH", "HEAD", "LOCKED"})
	for _, worktree := range worktrees {
		branch := worktree.Branch
		switch {
		case worktree.Bare:
			branch = "(bare)"
		case worktree.Detached:
			branch = "(detached)"
		}
		locked := ""
		if worktree.Locked {
			locked = yesCellConstant
		}
		tableWriter.AppendRow(table.Row{worktree.Path, branch, shortenHash(worktree.Head), locked})
	}
	renderer.Line(tableWriter.Render())
}

// SubmoduleTable writes submodules as a table.
func (renderer *Renderer) SubmoduleTable(submodules []gitrepo.Submodule) {
	tableWriter := renderer.newTable(table.Row{"PATH", "COMMIT", "STATE", "DESCRIBE"})
	for _, submodule := range submodules {
		state := string(submodule.State)
		if submodule.State != gitrepo.SubmoduleStateCurrent {
			state = renderer.palette.Warning(state)
		}
		tableWriter.AppendRow(table.Row{submodule.Path, shortenHash(submodule.Commit), state, submodule.Describe})
	}
	renderer.Line(tableWriter.Render())
}

func (renderer *Renderer) newTable(header table.Row) table.Writer {
	tableWriter := table.NewWriter()
	tableWriter.AppendHeader(header)
	tableWriter.SetStyle(table.StyleLight)
	return tableWriter
}

func shortenHash(hash string) string {
	const shortHashLength = 8
	if len(hash) <= shortHashLength {
		return hash
	}
	return hash[:shortHashLength]
}
