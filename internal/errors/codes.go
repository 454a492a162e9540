package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // 로그인 필요
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // 잘못된 이메일/비밀번호
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // 토큰 만료
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // 잘못된 토큰
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // 토큰 폐기됨
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // 이메일 중복
	AuthPasswordTooShort   = "AUTH_PASSWORD_TOO_SHORT"  // 비밀번호 8자 미만
	AuthLoginMethodLocal   = "AUTH_LOGIN_METHOD_LOCAL"  // 소셜 계정으로 로컬 로그인 시도
	AuthOAuthFailed        = "AUTH_OAUTH_FAILED"        // 소셜 로그인 실패
	AuthRateLimited        = "AUTH_RATE_LIMITED"        // 요청 횟수 초과

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // 접근 권한 없음
	AuthzAccessDenied = "AUTHZ_ACCESS_DENIED"  // 작업 권한 없음
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"     // 관리자만 가능
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"     // 소유자만 가능
	AuthzInvalidRole  = "AUTHZ_INVALID_ROLE"   // 잘못된 역할 값

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // 잘못된 입력
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // 잘못된 ID
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // 잘못된 형식
	ValidationTooShort      = "VALIDATION_TOO_SHORT"      // 너무 짧음
	ValidationTooLong       = "VALIDATION_TOO_LONG"       // 너무 길음
	ValidationRequired      = "VALIDATION_REQUIRED"       // 필수 항목

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"       // 충돌

	// ==================== 사용자 (USER_) ====================
	UserNotFound = "USER_NOT_FOUND" // 사용자 없음

	// ==================== 리뷰 (REVIEW_) ====================
	ReviewNotFound      = "REVIEW_NOT_FOUND"      // 리뷰 없음
	ReviewTitleMissing  = "REVIEW_TITLE_MISSING"  // 제목 누락
	ReviewBodyMissing   = "REVIEW_BODY_MISSING"   // 내용 누락
	ReviewRatingInvalid = "REVIEW_RATING_INVALID" // 평점 범위 오류

	// ==================== 댓글 (COMMENT_) ====================
	CommentNotFound     = "COMMENT_NOT_FOUND"      // 댓글 없음
	CommentBodyMissing  = "COMMENT_BODY_MISSING"   // 내용 누락
	CommentDeleteFailed = "COMMENT_DELETE_FAILED"  // 댓글 삭제 실패

	// ==================== 업로드 (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // 잘못된 파일 형식
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"    // 파일 너무 큼
	UploadFailed          = "UPLOAD_FAILED"            // 업로드 실패

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // 외부 API 오류
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"   // 설정 오류
)
