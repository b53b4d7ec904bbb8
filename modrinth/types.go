package modrinth

import (
	"time"

	"github.com/s0up4200/rinth/base62"
)

// The API does not always stick to its documented enum values, so the
// string-backed enums below accept anything. IsKnown tells whether a value is
// one of the documented ones.

// ProjectType is the kind of content a project distributes.
type ProjectType string

const (
	ProjectTypeMod          ProjectType = "mod"
	ProjectTypeModpack      ProjectType = "modpack"
	ProjectTypeResourcePack ProjectType = "resourcepack"
	ProjectTypeShader       ProjectType = "shader"
	ProjectTypePlugin       ProjectType = "plugin"
	ProjectTypeDataPack     ProjectType = "datapack"
)

func (t ProjectType) IsKnown() bool {
	switch t {
	case ProjectTypeMod, ProjectTypeModpack, ProjectTypeResourcePack,
		ProjectTypeShader, ProjectTypePlugin, ProjectTypeDataPack:
		return true
	}
	return false
}

// ProjectStatus is the moderation status of a project.
type ProjectStatus string

const (
	ProjectStatusApproved   ProjectStatus = "approved"
	ProjectStatusArchived   ProjectStatus = "archived"
	ProjectStatusRejected   ProjectStatus = "rejected"
	ProjectStatusDraft      ProjectStatus = "draft"
	ProjectStatusUnlisted   ProjectStatus = "unlisted"
	ProjectStatusProcessing ProjectStatus = "processing"
	ProjectStatusWithheld   ProjectStatus = "withheld"
	ProjectStatusScheduled  ProjectStatus = "scheduled"
	ProjectStatusPrivate    ProjectStatus = "private"
	ProjectStatusUnknown    ProjectStatus = "unknown"
)

func (s ProjectStatus) IsKnown() bool {
	switch s {
	case ProjectStatusApproved, ProjectStatusArchived, ProjectStatusRejected,
		ProjectStatusDraft, ProjectStatusUnlisted, ProjectStatusProcessing,
		ProjectStatusWithheld, ProjectStatusScheduled, ProjectStatusPrivate,
		ProjectStatusUnknown:
		return true
	}
	return false
}

// SideSupport says whether a project is needed on the client or server.
type SideSupport string

const (
	SideRequired    SideSupport = "required"
	SideOptional    SideSupport = "optional"
	SideUnsupported SideSupport = "unsupported"
	SideUnknown     SideSupport = "unknown"
)

func (s SideSupport) IsKnown() bool {
	switch s {
	case SideRequired, SideOptional, SideUnsupported, SideUnknown:
		return true
	}
	return false
}

// VersionType is the release channel of a version.
type VersionType string

const (
	VersionTypeRelease VersionType = "release"
	VersionTypeBeta    VersionType = "beta"
	VersionTypeAlpha   VersionType = "alpha"
)

func (t VersionType) IsKnown() bool {
	switch t {
	case VersionTypeRelease, VersionTypeBeta, VersionTypeAlpha:
		return true
	}
	return false
}

// DependencyType describes how a version relates to one of its dependencies.
type DependencyType string

const (
	DependencyRequired     DependencyType = "required"
	DependencyOptional     DependencyType = "optional"
	DependencyIncompatible DependencyType = "incompatible"
	DependencyEmbedded     DependencyType = "embedded"
)

func (t DependencyType) IsKnown() bool {
	switch t {
	case DependencyRequired, DependencyOptional, DependencyIncompatible, DependencyEmbedded:
		return true
	}
	return false
}

// Project is a mod, modpack or other project as returned by /project.
type Project struct {
	ID               base62.ID         `json:"id"`
	Slug             string            `json:"slug"`
	ProjectType      ProjectType       `json:"project_type"`
	Team             base62.ID         `json:"team"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Body             string            `json:"body"`
	Published        time.Time         `json:"published"`
	Updated          time.Time         `json:"updated"`
	Status           ProjectStatus     `json:"status"`
	ModeratorMessage *ModeratorMessage `json:"moderator_message"`
	License          ProjectLicense    `json:"license"`
	ClientSide       SideSupport       `json:"client_side"`
	ServerSide       SideSupport       `json:"server_side"`
	Downloads        int64             `json:"downloads"`
	Followers        int64             `json:"followers"`
	Categories       []string          `json:"categories"`
	GameVersions     []string          `json:"game_versions"`
	Loaders          []string          `json:"loaders"`
	Versions         []base62.ID       `json:"versions"`
	IconURL          string            `json:"icon_url"`
	IssuesURL        string            `json:"issues_url"`
	SourceURL        string            `json:"source_url"`
	WikiURL          string            `json:"wiki_url"`
	DiscordURL       string            `json:"discord_url"`
	DonationURLs     []DonationLink    `json:"donation_urls"`
	Gallery          []GalleryItem     `json:"gallery"`
}

type ModeratorMessage struct {
	Message string `json:"message"`
	Body    string `json:"body"`
}

type ProjectLicense struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type DonationLink struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type GalleryItem struct {
	URL         string    `json:"url"`
	Featured    bool      `json:"featured"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
}

// Version is one uploaded version of a project.
type Version struct {
	ID            base62.ID           `json:"id"`
	ProjectID     base62.ID           `json:"project_id"`
	AuthorID      base62.ID           `json:"author_id"`
	Featured      bool                `json:"featured"`
	Name          string              `json:"name"`
	VersionNumber string              `json:"version_number"`
	Changelog     string              `json:"changelog"`
	DatePublished time.Time           `json:"date_published"`
	Downloads     int64               `json:"downloads"`
	VersionType   VersionType         `json:"version_type"`
	Files         []VersionFile       `json:"files"`
	Dependencies  []VersionDependency `json:"dependencies"`
	GameVersions  []string            `json:"game_versions"`
	Loaders       []string            `json:"loaders"`
}

// PrimaryFile returns the file marked primary, or the first file when none
// is. It returns nil for a version without files.
func (v *Version) PrimaryFile() *VersionFile {
	for i := range v.Files {
		if v.Files[i].Primary {
			return &v.Files[i]
		}
	}
	if len(v.Files) > 0 {
		return &v.Files[0]
	}
	return nil
}

type VersionFile struct {
	Hashes   FileHashes `json:"hashes"`
	URL      string     `json:"url"`
	Filename string     `json:"filename"`
	Primary  bool       `json:"primary"`
	Size     int64      `json:"size"`
}

// FileHashes holds the hex digests of a file. For lookups at least one
// must be set; SHA512 wins when both are.
type FileHashes struct {
	SHA512 string `json:"sha512,omitempty"`
	SHA1   string `json:"sha1,omitempty"`
}

// SHA512 returns hashes holding only a sha512 digest.
func SHA512(hash string) FileHashes { return FileHashes{SHA512: hash} }

// SHA1 returns hashes holding only a sha1 digest.
func SHA1(hash string) FileHashes { return FileHashes{SHA1: hash} }

type VersionDependency struct {
	VersionID      *base62.ID     `json:"version_id"`
	ProjectID      *base62.ID     `json:"project_id"`
	FileName       string         `json:"file_name"`
	DependencyType DependencyType `json:"dependency_type"`
}
