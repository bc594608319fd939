package serviceInfo

import "fmt"

type ServiceInfo string

var (
	SERVICE_NAME        ServiceInfo = "VitiGen Variant Service"
	SERVICE_WELCOME     ServiceInfo = "Welcome to the VitiGen variant ingestion and search API!"
	SERVICE_DESCRIPTION ServiceInfo = "Variant upload and search service for grapevine genomic research."
	SERVICE_CONTACT     ServiceInfo = "mailto:support@vitigenlabs.example"

	SERVICE_ARTIFACT    ServiceInfo = "vitigen"
	SERVICE_VERSION     ServiceInfo = "1.0.0"
	SERVICE_TYPE_NO_VER ServiceInfo = ServiceInfo(fmt.Sprintf("org.vitigenlabs:%s", SERVICE_ARTIFACT))
	SERVICE_ID          ServiceInfo = SERVICE_TYPE_NO_VER
	SERVICE_TYPE        ServiceInfo = ServiceInfo(fmt.Sprintf("%s:%s", SERVICE_TYPE_NO_VER, SERVICE_VERSION))
)
