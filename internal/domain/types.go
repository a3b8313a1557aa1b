package domain

// DownloadStatus tracks whether a ticket's invoice PDF has been fetched.
type DownloadStatus string

const (
	DownloadPending  DownloadStatus = "Pending"
	DownloadSuccess  DownloadStatus = "Success"
	DownloadNotFound DownloadStatus = "Not Found"
)

// ParseStatus tracks whether invoice fields were extracted for a passenger.
type ParseStatus string

const (
	ParsePending ParseStatus = "Pending"
	ParseSuccess ParseStatus = "Success"
)
