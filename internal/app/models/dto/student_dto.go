package dto

// StudentInput carries the admission form exactly as entered. Every field is
// kept as text so the validation pipeline can report each problem with its
// own message.
type StudentInput struct {
	Name              string `json:"name"`
	FatherName        string `json:"fatherName"`
	BirthYear         string `json:"birthYear"`
	BirthMonth        string `json:"birthMonth"`
	BirthDay          string `json:"birthDay"`
	Address           string `json:"address"`
	PhoneNo           string `json:"phoneNo"`
	Email             string `json:"email"`
	Gender            string `json:"gender"`
	Pincode           string `json:"pincode"`
	Class10Percentage string `json:"class10Percentage"`
	Class12Percentage string `json:"class12Percentage"`
	CourseID          string `json:"courseId"`
}

// AdmissionResponse is returned after a successful admission
type AdmissionResponse struct {
	EnrollmentNo int64 `json:"enrollmentNo" example:"42"`
}
