package constants

import (
	"os"
	"strconv"
)

func GetPort() string {
	port := os.Getenv("TABDEX_PORT")
	if port != "" {
		return port
	}
	return "8080"
}

func GetOutDir() string {
	path := os.Getenv("TABDEX_OUT_PATH")
	if path != "" {
		return path
	}
	return "./out"
}

// GetMaxUpload returns the upload cap in bytes. Unparsable values fall
// back to the default.
func GetMaxUpload() int64 {
	v, err := strconv.ParseInt(os.Getenv("TABDEX_MAX_UPLOAD"), 10, 64)
	if err != nil || v <= 0 {
		return MaxUploadBytes
	}
	return v
}

func GetS3Bucket() string {
	return os.Getenv("TABDEX_S3_BUCKET")
}

func GetCatalogTable() string {
	return os.Getenv("TABDEX_CATALOG_TABLE")
}

// GetAWSEndpoint points the AWS clients at a local stack when set.
func GetAWSEndpoint() string {
	return os.Getenv("TABDEX_AWS_ENDPOINT")
}

func GetAWSRegion() string {
	region := os.Getenv("TABDEX_AWS_REGION")
	if region != "" {
		return region
	}
	return "us-east-1"
}

const MaxUploadBytes = 20 << 20

const ServiceName = "tabdex"

// DefaultWorkers bounds concurrent decodes in batch conversion.
const DefaultWorkers = 4
