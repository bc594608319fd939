package common

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"path"
	"runtime"

	yaml "gopkg.in/yaml.v2"

	"vitigen/api/models"
)

const (
	ServiceInfoPath            string = "%s/service-info"
	UploadsPath                string = "%s/uploads"
	IngestionRequestsPath      string = "%s/variants/ingestion/requests"
	VariantsSearchPath         string = "%s/variants/search/%s"
	VariantsAllPath            string = "%s/variants/all/%s"
	VariantsSearchWithTermPath string = "%s/variants/search/%s?term=%s"
)

// TestUserEmail is the identity integration tests present through the
// X-User-Email header; the target deployment runs with authentication
// disabled.
const TestUserEmail = "integration-tests@vitigenlabs.example"

func InitConfig() *models.Config {
	var cfg models.Config

	// get this file's path
	_, filename, _, _ := runtime.Caller(0)
	folderpath := path.Dir(filename)

	// retrieve common's test.config
	f, err := os.Open(fmt.Sprintf("%s/test.config.yml", folderpath))
	if err != nil {
		processError(err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	err = decoder.Decode(&cfg)
	if err != nil {
		processError(err)
	}

	if cfg.Debug {
		http.DefaultTransport.(*http.Transport).TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &cfg
}

func processError(err error) {
	fmt.Println(err)
	os.Exit(2)
}

// NewAuthenticatedRequest builds a request carrying the test identity.
func NewAuthenticatedRequest(method string, url string) (*http.Request, error) {
	request, err := http.NewRequest(method, url, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("X-User-Email", TestUserEmail)
	return request, nil
}
