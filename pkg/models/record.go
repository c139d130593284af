package models

// BookRecord is a book joined with its archive and title, as served by the
// read side.
type BookRecord struct {
	BookID      int       `bun:"book_id" json:"book_id"`
	Title       string    `bun:"book_title" json:"title"`
	ArchiveName string    `bun:"arch_name" json:"archive"`
	ArchiveHome string    `bun:"arch_home" json:"-"`
	File        string    `bun:"book_file" json:"file"`
	Size        int64     `bun:"book_size" json:"size"`
	CRC32       int64     `bun:"book_crc32" json:"crc32"`
	Authors     []*Author `bun:"-" json:"authors"`
	DownloadURL string    `bun:"-" json:"download_url"`
	ZipURL      string    `bun:"-" json:"download_zip_url"`
}
