package domain

// AllowedMethods are the only HTTP methods the dispatcher will send.
var AllowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "UPDATE"}

// MethodAllowed reports whether method is on the allow-list.
func MethodAllowed(method string) bool {
	for _, m := range AllowedMethods {
		if m == method {
			return true
		}
	}
	return false
}

// Container upload operations. Their base URL is remapped to the paired
// container host of the caller's region.
const (
	OpGetImageAssessmentReport = "GetImageAssessmentReport"
	OpDeleteImageDetails       = "DeleteImageDetails"
	OpImageMatchesPolicy       = "ImageMatchesPolicy"
)

// ContainerOperations is the container upload allow-list.
var ContainerOperations = setOf(
	OpGetImageAssessmentReport,
	OpDeleteImageDetails,
	OpImageMatchesPolicy,
)

// ImagePreventionPolicy is the policy type forced on ImageMatchesPolicy.
const ImagePreventionPolicy = "image-prevention-policy"

// PathKeyword maps the operations whose "{}" placeholder is filled from a
// named keyword rather than from the parameters map.
var PathKeyword = map[string]string{
	OpDeleteImageDetails:               "image_id",
	"refreshActiveStreamSession":       "partition",
	"querySensorUpdateKernelsDistinct": "distinct_field",
}

// PositionalKeywords fill a "{}" route placeholder, checked in order.
var PositionalKeywords = []string{"path_id", "vertex_type", "partition", "distinct_field", "image_id"}

// PathKeywordAliases maps a keyword onto the named placeholder it fills
// when the names differ.
var PathKeywordAliases = map[string]string{
	"search_id": "id",
}

// PreferIDsInBody lists operations that moved ids from the query string
// into the request body across API versions.
var PreferIDsInBody = setOf(
	"GetBehaviors", "GetCaseActivityByIds", "GetCaseEntitiesByIDs",
	"GetDetectSummaries", "GetEventsEntities", "GetHostMigrationsV1",
	"GetIncidents", "GetIntelIndicatorEntities", "GetQuarantineFiles",
	"GetRulesEntities", "GetSensorDetails", "GetVulnerabilities",
	"HostMigrationsActionsV1", "MigrationsActionsV1", "PatchEntitiesAlertsV2",
	"PerformActionV2", "PerformIncidentAction", "PostDeviceDetailsV2",
	"PostEntitiesAlertsV1", "PostMitreAttacks", "QueryDeviceLoginHistory",
	"QueryDeviceLoginHistoryV2", "QueryGetNetworkAddressHistoryV1",
	"RTR_ListQueuedSessions", "RTR_ListSessions", "UpdateDetectsByIdsV2",
	"cancel_scans", "UpdateQuarantinedDetectsByIds", "WorkflowExecutionsAction",
	"get_rules_get", "getChildrenV2", "performContentUpdatePoliciesAction",
	"performDeviceControlPoliciesAction", "userActionV1",
	"performFirewallPoliciesAction", "performGroupAction",
	"performPreventionPoliciesAction", "performRTResponsePoliciesAction",
	"performSensorUpdatePoliciesAction", "retrieveUsersGETV1",
	"setContentUpdatePoliciesPrecedence", "setDeviceControlPoliciesPrecedence",
	"setFirewallPoliciesPrecedence", "setPreventionPoliciesPrecedence",
	"signalChangesExternal", "setRTResponsePoliciesPrecedence",
	"setSensorUpdatePoliciesPrecedence", "GetDeviceDetails",
	"CreateSavedSearchesDeployV1", "cancel-scans", "get-rules-get",
	"WorkflowDefinitionsStatus", "WorkflowDefinitionsAction",
)

// PreferNoBody lists operations dispatched without a JSON body.
var PreferNoBody = setOf(
	"report_executions_download_get", "report_executions_download.get",
	"RTR_ListFiles", "RTR_ListFilesV2", "RTR_GetExtractedFileContents",
	"RTR_DeleteSession",
)

func setOf(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// InSet reports whether name is a member of set.
func InSet(set map[string]struct{}, name string) bool {
	_, ok := set[name]
	return ok
}
