package isapi

// Wire types for the ISAPI JSON endpoints the bridge uses. Field names
// follow the device firmware, not Go conventions.

const (
	majorAccessControl = 5
	minorAll           = 0
)

type deviceInfoResponse struct {
	DeviceInfo struct {
		Model           string `json:"model"`
		SerialNumber    string `json:"serialNumber"`
		FirmwareVersion string `json:"firmwareVersion"`
	} `json:"DeviceInfo"`
}

type acsEventCond struct {
	SearchID             string `json:"searchID"`
	SearchResultPosition int    `json:"searchResultPosition"`
	MaxResults           int    `json:"maxResults"`
	Major                int    `json:"major"`
	Minor                int    `json:"minor"`
	StartTime            string `json:"startTime"`
	EndTime              string `json:"endTime"`
	IsAttendanceInfo     bool   `json:"isAttendanceInfo"`
	TimeReverseOrder     bool   `json:"timeReverseOrder"`
}

type acsEventSearchRequest struct {
	AcsEventCond acsEventCond `json:"AcsEventCond"`
}

type acsEventInfo struct {
	EmployeeNoString string `json:"employeeNoString"`
	Time             string `json:"time"`
	Label            string `json:"label"`
	Name             string `json:"name"`
}

type acsEventSearchResponse struct {
	AcsEvent struct {
		TotalMatches int            `json:"totalMatches"`
		InfoList     []acsEventInfo `json:"InfoList"`
	} `json:"AcsEvent"`
}

type userInfoValid struct {
	Enable    bool   `json:"enable"`
	BeginTime string `json:"beginTime"`
	EndTime   string `json:"endTime"`
	TimeType  string `json:"timeType"`
}

type userInfoModify struct {
	UserInfo struct {
		EmployeeNo string         `json:"employeeNo"`
		Name       string         `json:"name,omitempty"`
		UserType   string         `json:"userType"`
		Valid      *userInfoValid `json:"Valid,omitempty"`
		DoorRight  string         `json:"doorRight,omitempty"`
	} `json:"UserInfo"`
}

type userInfoSearchCond struct {
	SearchID             string `json:"searchID"`
	SearchResultPosition int    `json:"searchResultPosition"`
	MaxResults           int    `json:"maxResults"`
}

type userInfoSearchRequest struct {
	UserInfoSearchCond userInfoSearchCond `json:"UserInfoSearchCond"`
}

type userInfoSearchResponse struct {
	UserInfoSearch struct {
		TotalMatches int `json:"totalMatches"`
		UserInfo     []struct {
			EmployeeNo string `json:"employeeNo"`
			Name       string `json:"name"`
		} `json:"UserInfo"`
	} `json:"UserInfoSearch"`
}

type httpHostNotification struct {
	HTTPHostNotification struct {
		ID                       string `json:"id"`
		URL                      string `json:"url"`
		ProtocolType             string `json:"protocolType"`
		ParameterFormatType      string `json:"parameterFormatType"`
		AddressingFormatType     string `json:"addressingFormatType"`
		IPAddress                string `json:"ipAddress"`
		PortNo                   int    `json:"portNo"`
		HTTPAuthenticationMethod string `json:"httpAuthenticationMethod"`
	} `json:"HttpHostNotification"`
}
