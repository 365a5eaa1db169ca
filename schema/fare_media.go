package schema

// FareMedia represents a fare payment medium from fare_media.txt.
type FareMedia struct {
	FareMediaID   string `csv:"fare_media_id"`
	FareMediaName string `csv:"fare_media_name"`
	FareMediaType int    `csv:"fare_media_type"`
}
