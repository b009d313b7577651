package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrEmailTaken         ErrCode = "EMAIL_ALREADY_REGISTERED"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrPermissionDenied  ErrCode = "PERMISSION_DENIED"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"
	ErrAdminAccessOnly   ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Lesson / quiz ─────────────────────────────────────────────────
	ErrInvalidYouTubeURL  ErrCode = "INVALID_YOUTUBE_URL"
	ErrInvalidQuestions   ErrCode = "INVALID_QUESTIONS"
	ErrLessonUnlocked     ErrCode = "LESSON_ALREADY_UNLOCKED"
	ErrNoActiveAttempt    ErrCode = "NO_ACTIVE_ATTEMPT"
	ErrAlreadySubmitted   ErrCode = "ALREADY_SUBMITTED"
	ErrAnswersIncomplete  ErrCode = "ANSWERS_INCOMPLETE"
	ErrAnswerOutOfRange   ErrCode = "ANSWER_OUT_OF_RANGE"

	// ─── Wallet ────────────────────────────────────────────────────────
	ErrCodeNotFound    ErrCode = "CODE_NOT_FOUND"
	ErrCodeAlreadyUsed ErrCode = "CODE_ALREADY_USED"

	// ─── Assistant ─────────────────────────────────────────────────────
	ErrAssistantUnavailable ErrCode = "ASSISTANT_UNAVAILABLE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "البريد الإلكتروني أو كلمة المرور غير صحيحة."
	case ErrEmailTaken:
		return "هذا البريد الإلكتروني مسجل بالفعل."
	case ErrSessionInvalidated:
		return "انتهت جلستك. يرجى تسجيل الدخول مرة أخرى."
	case ErrTokenRequired:
		return "رمز الدخول مطلوب."
	case ErrTokenInvalid:
		return "رمز الدخول غير صالح."
	case ErrTokenExpired:
		return "انتهت صلاحية رمز الدخول."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "ليس لديك صلاحية الوصول إلى هذا المورد."
	case ErrPermissionDenied:
		return "تم رفض الإذن."
	case ErrStudentAccessOnly:
		return "هذا المورد متاح للطلاب فقط."
	case ErrAdminAccessOnly:
		return "هذا المورد متاح للمشرفين فقط."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "فشل التحقق من البيانات. يرجى مراجعة المدخلات."
	case ErrInvalidID:
		return "صيغة المعرف غير صالحة."
	case ErrInvalidPayload:
		return "محتوى الطلب غير صالح."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "المورد غير موجود."
	case ErrConflict:
		return "المورد موجود بالفعل."

	// ─── Lesson / quiz ─────────────────────────────────────────────────
	case ErrInvalidYouTubeURL:
		return "رابط يوتيوب غير صحيح."
	case ErrInvalidQuestions:
		return "يرجى إكمال جميع حقول الأسئلة والخيارات."
	case ErrLessonUnlocked:
		return "تم اجتياز امتحان هذه المحاضرة بالفعل."
	case ErrNoActiveAttempt:
		return "لا يوجد امتحان جارٍ لهذه المحاضرة."
	case ErrAlreadySubmitted:
		return "تم تسليم الإجابات بالفعل."
	case ErrAnswersIncomplete:
		return "يرجى الإجابة عن جميع الأسئلة قبل التسليم."
	case ErrAnswerOutOfRange:
		return "رقم السؤال أو الخيار خارج النطاق."

	// ─── Wallet ────────────────────────────────────────────────────────
	case ErrCodeNotFound:
		return "الكود غير صحيح"
	case ErrCodeAlreadyUsed:
		return "هذا الكود مستخدم مسبقاً"

	// ─── Assistant ─────────────────────────────────────────────────────
	case ErrAssistantUnavailable:
		return "حدث خطأ في الاتصال. يرجى المحاولة لاحقاً."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "عدد كبير من المحاولات. يرجى المحاولة لاحقاً."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "حدث خطأ داخلي في الخادم."
	default:
		return "حدث خطأ غير متوقع."
	}
}
