package audit

// Action names. Each failing variant carries the _FAILED or _DENIED suffix.
const (
	CreateUser           = "CREATE_USER"
	CreateUserFailed     = "CREATE_USER_FAILED"
	LoginSuccess         = "LOGIN_SUCCESS"
	LoginFailed          = "LOGIN_FAILED"
	LoginError           = "LOGIN_ERROR"
	Logout               = "LOGOUT"
	UpdateProfile        = "UPDATE_PROFILE"
	UpdateProfileFailed  = "UPDATE_PROFILE_FAILED"
	UpdatePassword       = "UPDATE_PASSWORD"
	UpdatePasswordFailed = "UPDATE_PASSWORD_FAILED"
	ViewAllUsers         = "VIEW_ALL_USERS"
	ViewAllUsersFailed   = "VIEW_ALL_USERS_FAILED"
	ChangeUserID         = "CHANGE_USER_ID"
	ChangeUserIDFailed   = "CHANGE_USER_ID_FAILED"

	AddScroll              = "ADD_SCROLL"
	AddScrollFailed        = "ADD_SCROLL_FAILED"
	UpdateScroll           = "UPDATE_SCROLL"
	UpdateScrollFailed     = "UPDATE_SCROLL_FAILED"
	UpdateScrollFile       = "UPDATE_SCROLL_FILE"
	UpdateScrollFileFailed = "UPDATE_SCROLL_FILE_FAILED"
	ChangeScrollID         = "CHANGE_SCROLL_ID"
	ChangeScrollIDFailed   = "CHANGE_SCROLL_ID_FAILED"
	DeleteScroll           = "DELETE_SCROLL"
	DeleteScrollFailed     = "DELETE_SCROLL_FAILED"
	DownloadScroll         = "DOWNLOAD_SCROLL"
	DownloadScrollFailed   = "DOWNLOAD_SCROLL_FAILED"
	ViewScroll             = "VIEW_SCROLL"
	SearchScroll           = "SEARCH_SCROLL"
	ViewAllScrolls         = "VIEW_ALL_SCROLLS"
	PreviewScroll          = "VIEW_AS_GUEST"
	PreviewScrollFailed    = "VIEW_AS_GUEST_FAILED"

	AdminViewUsers        = "ADMIN_VIEW_USERS"
	AdminViewUsersDenied  = "ADMIN_VIEW_USERS_DENIED"
	AdminCreateUser       = "ADMIN_CREATE_USER"
	AdminCreateUserFailed = "ADMIN_CREATE_USER_FAILED"
	AdminCreateUserDenied = "ADMIN_CREATE_USER_DENIED"
	AdminDeleteUser       = "ADMIN_DELETE_USER"
	AdminDeleteUserFailed = "ADMIN_DELETE_USER_FAILED"
	AdminDeleteUserDenied = "ADMIN_DELETE_USER_DENIED"
	AdminUpdateRole       = "ADMIN_UPDATE_ROLE"
	AdminUpdateRoleFailed = "ADMIN_UPDATE_ROLE_FAILED"
	AdminUpdateRoleDenied = "ADMIN_UPDATE_ROLE_DENIED"
	ViewAsUser            = "VIEW_AS_USER"
	ViewAsUserFailed      = "VIEW_AS_USER_FAILED"
	ViewAsUserDenied      = "VIEW_AS_USER_DENIED"
	ViewScrollStats       = "VIEW_SCROLL_STATS"
	ViewScrollStatsFailed = "VIEW_SCROLL_STATS_FAILED"
)
