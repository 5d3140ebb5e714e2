package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimeText        = "text/plain; charset=utf-8"
	MimeOctetStream = "application/octet-stream"
)

const (
	BytesPerKB = 1024
	BytesPerMB = 1024 * BytesPerKB
)
