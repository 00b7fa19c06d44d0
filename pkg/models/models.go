package models

// Domain models matching the database schema in db/migrations. Timestamps are
// millisecond UTC unix values stored as INTEGER columns.

type User struct {
	ID           int64  `json:"id" db:"id"`
	Email        string `json:"email" db:"email" validate:"required,email"`
	PasswordHash string `json:"-" db:"password_hash"`
	FullName     string `json:"full_name" db:"full_name" validate:"required"`
	Phone        string `json:"phone" db:"phone" validate:"required"`
	Role         Role   `json:"role" db:"role"`

	CollegeID  *string  `json:"college_id,omitempty" db:"college_id"`
	RollNumber *string  `json:"roll_number,omitempty" db:"roll_number"`
	Branch     *string  `json:"branch,omitempty" db:"branch"`
	CGPA       *float64 `json:"cgpa,omitempty" db:"cgpa"`

	ProfileImageURL     *string `json:"profile_image_url,omitempty" db:"profile_image_url"`
	ProfessionalSummary *string `json:"professional_summary,omitempty" db:"professional_summary"`
	Skills              *string `json:"skills,omitempty" db:"skills"`
	Internships         *string `json:"internships,omitempty" db:"internships"`
	Projects            *string `json:"projects,omitempty" db:"projects"`
	Certifications      *string `json:"certifications,omitempty" db:"certifications"`
	LinkedinURL         *string `json:"linkedin_url,omitempty" db:"linkedin_url"`
	ResumeURL           *string `json:"resume_url,omitempty" db:"resume_url"`

	IsActive  bool   `json:"is_active" db:"is_active"`
	Created   int64  `json:"created" db:"created"`
	LastLogin *int64 `json:"last_login,omitempty" db:"last_login"`
}

type Company struct {
	ID             int64   `json:"id" db:"id"`
	CompanyName    string  `json:"company_name" db:"company_name" validate:"required"`
	CompanyLogo    *string `json:"company_logo,omitempty" db:"company_logo"`
	JobRole        string  `json:"job_role" db:"job_role" validate:"required"`
	JobDescription string  `json:"job_description" db:"job_description"`
	PackageAmount  float64 `json:"package_amount" db:"package_amount"`
	Location       string  `json:"location" db:"location"`

	EligibleBranches string  `json:"eligible_branches" db:"eligible_branches"`
	MinimumCGPA      float64 `json:"minimum_cgpa" db:"minimum_cgpa"`
	MaxBacklogs      int     `json:"max_backlogs" db:"max_backlogs"`

	SelectionProcess string `json:"selection_process" db:"selection_process"`
	NumberOfRounds   int    `json:"number_of_rounds" db:"number_of_rounds"`

	ApplicationDeadline string  `json:"application_deadline" db:"application_deadline"`
	DriveDate           *string `json:"drive_date,omitempty" db:"drive_date"`

	IsActive        bool `json:"is_active" db:"is_active"`
	TotalPositions  int  `json:"total_positions" db:"total_positions"`
	FilledPositions int  `json:"filled_positions" db:"filled_positions"`

	PostedBy int64 `json:"posted_by" db:"posted_by"`
	Posted   int64 `json:"posted" db:"posted"`

	WebsiteURL            *string `json:"website_url,omitempty" db:"website_url"`
	CompanyType           string  `json:"company_type" db:"company_type"`
	Bond                  *string `json:"bond,omitempty" db:"bond"`
	EmployeesCount        *int    `json:"employees_count,omitempty" db:"employees_count"`
	WorkFromHome          *bool   `json:"work_from_home,omitempty" db:"work_from_home"`
	LearningOpportunities *bool   `json:"learning_opportunities,omitempty" db:"learning_opportunities"`
	GrowthPotential       *bool   `json:"growth_potential,omitempty" db:"growth_potential"`
}

type Application struct {
	ID        int64 `json:"id" db:"id"`
	StudentID int64 `json:"student_id" db:"student_id"`
	CompanyID int64 `json:"company_id" db:"company_id"`

	Status ApplicationStatus `json:"status" db:"status"`

	CurrentRound  int     `json:"current_round" db:"current_round"`
	RoundsCleared *string `json:"rounds_cleared,omitempty" db:"rounds_cleared"`
	Feedback      *string `json:"feedback,omitempty" db:"feedback"`

	Applied     int64 `json:"applied" db:"applied"`
	LastUpdated int64 `json:"last_updated" db:"last_updated"`

	SelectedDate   *string  `json:"selected_date,omitempty" db:"selected_date"`
	OfferedPackage *float64 `json:"offered_package,omitempty" db:"offered_package"`
	JoiningDate    *string  `json:"joining_date,omitempty" db:"joining_date"`

	ResumeURL   *string `json:"resume_url,omitempty" db:"resume_url"`
	CoverLetter *string `json:"cover_letter,omitempty" db:"cover_letter"`

	HODApproved   bool   `json:"hod_approved" db:"hod_approved"`
	TPOApproved   bool   `json:"tpo_approved" db:"tpo_approved"`
	HODApprovedAt *int64 `json:"hod_approved_at,omitempty" db:"hod_approved_at"`
	TPOApprovedAt *int64 `json:"tpo_approved_at,omitempty" db:"tpo_approved_at"`
}

// ApplicationWithCompany is the read model joining an application to its
// company row, used by student-facing listings.
type ApplicationWithCompany struct {
	Application Application `json:"application"`
	Company     Company     `json:"company"`
}

type Interview struct {
	ID            int64 `json:"id" db:"id"`
	ApplicationID int64 `json:"application_id" db:"application_id"`
	StudentID     int64 `json:"student_id" db:"student_id"`
	CompanyID     int64 `json:"company_id" db:"company_id"`

	InterviewDate     string `json:"interview_date" db:"interview_date"`
	InterviewTime     string `json:"interview_time" db:"interview_time"`
	InterviewMode     string `json:"interview_mode" db:"interview_mode"`
	InterviewLocation string `json:"interview_location" db:"interview_location"`

	InterviewRound int    `json:"interview_round" db:"interview_round"`
	RoundType      string `json:"round_type" db:"round_type"`

	Status InterviewStatus `json:"status" db:"status"`

	Notes    *string `json:"notes,omitempty" db:"notes"`
	Feedback *string `json:"feedback,omitempty" db:"feedback"`

	Created int64 `json:"created" db:"created"`
	Updated int64 `json:"updated" db:"updated"`
}

type Resume struct {
	ID        int64  `json:"id" db:"id"`
	StudentID int64  `json:"student_id" db:"student_id"`
	FileName  string `json:"file_name" db:"file_name"`
	FilePath  string `json:"file_path" db:"file_path"`
	FileSize  int64  `json:"file_size" db:"file_size"`
	MimeType  string `json:"mime_type" db:"mime_type"`
	IsPrimary bool   `json:"is_primary" db:"is_primary"`
	Uploaded  int64  `json:"uploaded" db:"uploaded"`
}

type Document struct {
	ID           int64  `json:"id" db:"id"`
	StudentID    int64  `json:"student_id" db:"student_id"`
	DocumentType string `json:"document_type" db:"document_type"`
	FileName     string `json:"file_name" db:"file_name"`
	FilePath     string `json:"file_path" db:"file_path"`
	Uploaded     int64  `json:"uploaded" db:"uploaded"`

	VerificationStatus VerificationStatus `json:"verification_status" db:"verification_status"`
	VerifiedBy         *int64             `json:"verified_by,omitempty" db:"verified_by"`
	VerifiedAt         *int64             `json:"verified_at,omitempty" db:"verified_at"`
	RejectionReason    *string            `json:"rejection_reason,omitempty" db:"rejection_reason"`

	ExpiryDate *int64 `json:"expiry_date,omitempty" db:"expiry_date"`
	IsActive   bool   `json:"is_active" db:"is_active"`
}

type Notification struct {
	ID        int64  `json:"id" db:"id"`
	UserID    int64  `json:"user_id" db:"user_id"`
	Title     string `json:"title" db:"title"`
	Message   string `json:"message" db:"message"`
	Type      string `json:"type" db:"type"`
	RelatedID *int64 `json:"related_id,omitempty" db:"related_id"`
	// Tag is the channel collision-avoidance key: relatedID plus a numeric
	// offset per notification type.
	Tag      int64  `json:"tag" db:"tag"`
	IsRead   bool   `json:"is_read" db:"is_read"`
	ReadAt   *int64 `json:"read_at,omitempty" db:"read_at"`
	Priority string `json:"priority" db:"priority"`
	Created  int64  `json:"created" db:"created"`
}

type Alumni struct {
	ID        int64 `json:"id" db:"id"`
	StudentID int64 `json:"student_id" db:"student_id"`

	GraduationYear    int      `json:"graduation_year" db:"graduation_year"`
	CurrentCompany    string   `json:"current_company" db:"current_company"`
	CurrentPosition   string   `json:"current_position" db:"current_position"`
	CurrentPackage    *float64 `json:"current_package,omitempty" db:"current_package"`
	YearsOfExperience int      `json:"years_of_experience" db:"years_of_experience"`

	LinkedinURL  *string `json:"linkedin_url,omitempty" db:"linkedin_url"`
	GithubURL    *string `json:"github_url,omitempty" db:"github_url"`
	PortfolioURL *string `json:"portfolio_url,omitempty" db:"portfolio_url"`

	WillingToMentor       bool    `json:"willing_to_mentor" db:"willing_to_mentor"`
	MentorshipAreas       *string `json:"mentorship_areas,omitempty" db:"mentorship_areas"`
	AvailableForReferrals bool    `json:"available_for_referrals" db:"available_for_referrals"`

	Bio          *string `json:"bio,omitempty" db:"bio"`
	Achievements *string `json:"achievements,omitempty" db:"achievements"`
	IsVerified   bool    `json:"is_verified" db:"is_verified"`

	Created     int64 `json:"created" db:"created"`
	LastUpdated int64 `json:"last_updated" db:"last_updated"`
}

// ProfileSchema is a stored JSON schema used to validate student profile
// payloads before they are persisted.
type ProfileSchema struct {
	ID          int64  `json:"id" db:"id"`
	Version     string `json:"version" db:"version"`
	Description string `json:"description,omitempty" db:"description"`
	SchemaJSON  string `json:"schema_json" db:"schema_json"`
	Created     int64  `json:"created" db:"created"`
	Updated     int64  `json:"updated" db:"updated"`
}

// PlacementStats aggregates read-side counters for reports and dashboards.
type PlacementStats struct {
	ActiveCompanies   int64   `json:"active_companies"`
	TotalApplications int64   `json:"total_applications"`
	TotalSelected     int64   `json:"total_selected"`
	AveragePackage    float64 `json:"average_package"`
	HighestPackage    float64 `json:"highest_package"`
}
