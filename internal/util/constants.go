package util

const DateFormat = "2006-01-02"

// 练习与考试固定题量
const (
	SetSize = 30

	DefaultExamLevel1 = 15
	DefaultExamLevel2 = 10
	DefaultExamLevel3 = 5
)

// 评分窗口最多包含的正确作答数
const RatingWindow = 30

const RequestIDHeader = "X-Request-ID"
