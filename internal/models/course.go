package models

import "time"

type Course struct {
	Base
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

// Enrollment links a customer to a course, usually through the purchase of a course-mapped product.
type Enrollment struct {
	Base
	CustomerID string    `gorm:"size:36;not null;uniqueIndex:idx_enrollment_customer_course" json:"customerId"`
	CourseID   string    `gorm:"size:36;not null;uniqueIndex:idx_enrollment_customer_course" json:"courseId"`
	OrderID    *string   `gorm:"size:36" json:"orderId,omitempty"`
	EnrolledAt time.Time `gorm:"not null" json:"enrolledAt"`
	Course     *Course   `json:"course,omitempty"`
}
