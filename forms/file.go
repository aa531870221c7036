package forms

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Dosada05/hackathon-portal/client"
	"github.com/gabriel-vasile/mimetype"
)

// MaxProposalSize is the upload limit for proposal PDFs (5 MB).
const MaxProposalSize = 5 << 20

var (
	ErrNotPDF       = errors.New("Only PDF files are allowed")
	ErrFileTooLarge = errors.New("File size should be less than 5MB")
	ErrEmptyFile    = errors.New("File is empty")
)

// CheckProposal accepts data only when its content is a PDF of at most 5 MB.
// The file name is not trusted.
func CheckProposal(name string, data []byte) (*client.Attachment, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if len(data) > MaxProposalSize {
		return nil, ErrFileTooLarge
	}
	if !mimetype.Detect(data).Is("application/pdf") {
		return nil, ErrNotPDF
	}
	return &client.Attachment{Filename: filepath.Base(name), Data: data}, nil
}

// LoadProposal reads and checks a proposal from disk. Oversized files are
// rejected by size before their content is read.
func LoadProposal(path string) (*client.Attachment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open proposal: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat proposal: %w", err)
	}
	if info.Size() > MaxProposalSize {
		return nil, ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxProposalSize+1))
	if err != nil {
		return nil, fmt.Errorf("read proposal: %w", err)
	}
	return CheckProposal(path, data)
}
