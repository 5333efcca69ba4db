package assets

import (
	"io/fs"
	"path/filepath"
	"strings"

	appErrors "github.com/unclebandit/dmcodex/internal/errors"
)

// Subdirectories created under every campaign root.
var Subdirs = []string{"cover", "maps", "portraits", "assets", "backups", "exports"}

const readmeName = "README.md"

const readme = `# Campaign Data Folder

Everything DM's Codex stores for this campaign on disk lives here.

## Layout
- ` + "`cover/`" + ` cover image
- ` + "`maps/`" + ` battle maps and world maps
- ` + "`portraits/`" + ` character and NPC portraits
- ` + "`assets/`" + ` documents, handouts and other files
- ` + "`backups/`" + ` automatic backups
- ` + "`exports/`" + ` exported campaign data

DM's Codex manages this folder. Renaming or removing the subfolders may break the campaign.
Backups are created and pruned automatically.
`

// Tree resolves and manages campaign asset directories under {dataRoot}/campaigns/{id}.
type Tree struct {
	DataRoot string
	FS       FileSystem
}

func NewTree(dataRoot string, fsys FileSystem) *Tree {
	if fsys == nil {
		fsys = NewOSFileSystem()
	}
	return &Tree{DataRoot: dataRoot, FS: fsys}
}

// Root is the deterministic directory of a campaign.
func (t *Tree) Root(campaignID string) string {
	return filepath.Join(t.DataRoot, "campaigns", campaignID)
}

func (t *Tree) CoverDir(campaignID string) string {
	return filepath.Join(t.Root(campaignID), "cover")
}

// CoverPath is cover/cover{ext}; ext includes the leading dot or is empty.
func (t *Tree) CoverPath(campaignID, ext string) string {
	return filepath.Join(t.CoverDir(campaignID), "cover"+ext)
}

// Create builds the root, every subdirectory and the README.
func (t *Tree) Create(campaignID string) error {
	root := t.Root(campaignID)
	dirs := []string{root}
	for _, sub := range Subdirs {
		dirs = append(dirs, filepath.Join(root, sub))
	}
	for _, dir := range dirs {
		if err := t.FS.EnsureDir(dir); err != nil {
			return appErrors.NewFileSystem("Failed to create campaign folders", dir, err)
		}
	}

	path := filepath.Join(root, readmeName)
	if err := t.FS.WriteFile(path, []byte(readme)); err != nil {
		return appErrors.NewFileSystem("Failed to create campaign folders", path, err)
	}
	return nil
}

// Remove deletes the whole campaign directory. A missing directory is not an error.
func (t *Tree) Remove(campaignID string) error {
	root := t.Root(campaignID)
	exists, err := t.FS.Exists(root)
	if err != nil {
		return appErrors.NewFileSystem("Failed to delete campaign folders", root, err)
	}
	if !exists {
		return nil
	}
	if err := t.FS.RemoveAll(root); err != nil {
		return appErrors.NewFileSystem("Failed to delete campaign folders", root, err)
	}
	return nil
}

// ImportCover copies sourcePath to cover/cover{ext} and returns the destination.
func (t *Tree) ImportCover(campaignID, sourcePath string) (string, error) {
	exists, err := t.FS.Exists(sourcePath)
	if err != nil {
		return "", appErrors.NewFileSystem("Failed to read source image file", sourcePath, err)
	}
	if !exists {
		return "", appErrors.NewFileSystem("Source image file does not exist", sourcePath, fs.ErrNotExist)
	}

	dst := t.CoverPath(campaignID, filepath.Ext(sourcePath))
	if err := t.FS.Copy(sourcePath, dst); err != nil {
		return "", appErrors.NewFileSystem("Failed to copy cover image", dst, err)
	}
	return dst, nil
}

// RemoveFile deletes path if present.
func (t *Tree) RemoveFile(path string) error {
	exists, err := t.FS.Exists(path)
	if err != nil {
		return appErrors.NewFileSystem("Failed to remove cover image file", path, err)
	}
	if !exists {
		return nil
	}
	if err := t.FS.Remove(path); err != nil {
		return appErrors.NewFileSystem("Failed to remove cover image file", path, err)
	}
	return nil
}

// InCoverDir reports whether path is a file strictly inside the campaign's cover directory.
func (t *Tree) InCoverDir(campaignID, path string) bool {
	if !filepath.IsAbs(path) {
		return false
	}
	rel, err := filepath.Rel(t.CoverDir(campaignID), path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
