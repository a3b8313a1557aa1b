package models

import "airline-dashboard/internal/domain"

// Passenger is one identity row plus its pipeline state.
type Passenger struct {
	ID             int                   `json:"id"`
	TicketNumber   string                `json:"ticket_number"`
	FirstName      string                `json:"first_name"`
	LastName       string                `json:"last_name"`
	DownloadStatus domain.DownloadStatus `json:"download_status"`
	ParseStatus    domain.ParseStatus    `json:"parse_status"`
	PDFFilename    *string               `json:"pdf_filename"`
}

// FullName is "first last" as used by search.
func (p Passenger) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Downloaded reports whether the invoice PDF was fetched successfully.
func (p Passenger) Downloaded() bool {
	return p.DownloadStatus == domain.DownloadSuccess
}

// Parsed reports whether at least one invoice was extracted.
func (p Passenger) Parsed() bool {
	return p.ParseStatus == domain.ParseSuccess
}

// Clone returns a copy that shares no pointers with p.
func (p Passenger) Clone() Passenger {
	if p.PDFFilename != nil {
		name := *p.PDFFilename
		p.PDFFilename = &name
	}
	return p
}
