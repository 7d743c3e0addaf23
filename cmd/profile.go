package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/placement-advisor/internal/extract"
	"github.com/spigell/placement-advisor/internal/profile"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

// addProfileFlags registers the flags every profile-consuming command accepts.
func addProfileFlags(cmd *cobra.Command) {
	defaults := profile.Default()

	cmd.Flags().StringP("resume", "r", "", "resume file (.pdf, .txt or .md) to extract the profile from")
	cmd.Flags().BoolP("interactive", "i", false, "enter the profile interactively")

	cmd.Flags().Float64("cgpa", defaults.CGPA, "CGPA on a 10 point scale")
	cmd.Flags().Float64("tenth", defaults.TenthMarks, "10th grade marks, percent")
	cmd.Flags().Float64("twelfth", defaults.TwelfthMarks, "12th grade marks, percent")
	cmd.Flags().StringSlice("skills", nil, "comma separated skills")
	cmd.Flags().Bool("internships", false, "has internship experience")
	cmd.Flags().Bool("projects", false, "has project experience")
	cmd.Flags().Bool("training", false, "has completed training")
	cmd.Flags().Bool("certification", false, "has a technical certification or course")
	cmd.Flags().Int("communication", defaults.CommunicationLevel, "communication level 1-5")
	cmd.Flags().Int("technical", defaults.TechnicalSkillsScore, "technical skills score 0-100")
}

// resolveProfile builds the student from a resume, the prompts or the flags.
// Flags set explicitly on the command line override values taken from a resume.
func resolveProfile(cmd *cobra.Command, logger *zap.Logger) (profile.Student, *extract.Resume, string, error) {
	var (
		student = profile.Default()
		resume  *extract.Resume
		source  = "flags"
	)

	path, _ := cmd.Flags().GetString("resume")
	interactive, _ := cmd.Flags().GetBool("interactive")

	switch {
	case path != "":
		extracted, err := extractResume(path, logger)
		if err != nil {
			return student, nil, "", fmt.Errorf("extract resume %s: %w", path, err)
		}
		resume = extracted
		student = extracted.Profile
		source = path
	case interactive:
		prompted, err := promptProfile(student)
		if err != nil {
			return student, nil, "", err
		}
		return prompted, nil, "interactive", prompted.Validate()
	}

	student, err := applyProfileFlags(cmd, student)
	if err != nil {
		return student, nil, "", err
	}

	if resume != nil {
		resume.Profile = student
	}

	return student, resume, source, student.Validate()
}

func applyProfileFlags(cmd *cobra.Command, student profile.Student) (profile.Student, error) {
	flags := cmd.Flags()
	var err error

	floats := map[string]*float64{
		"cgpa":    &student.CGPA,
		"tenth":   &student.TenthMarks,
		"twelfth": &student.TwelfthMarks,
	}
	for name, target := range floats {
		if flags.Changed(name) {
			if *target, err = flags.GetFloat64(name); err != nil {
				return student, err
			}
		}
	}

	bools := map[string]*bool{
		"internships":   &student.Internships,
		"projects":      &student.Projects,
		"training":      &student.Training,
		"certification": &student.TechnicalCourse,
	}
	for name, target := range bools {
		if flags.Changed(name) {
			if *target, err = flags.GetBool(name); err != nil {
				return student, err
			}
		}
	}

	ints := map[string]*int{
		"communication": &student.CommunicationLevel,
		"technical":     &student.TechnicalSkillsScore,
	}
	for name, target := range ints {
		if flags.Changed(name) {
			if *target, err = flags.GetInt(name); err != nil {
				return student, err
			}
		}
	}

	if flags.Changed("skills") {
		skills, err := flags.GetStringSlice("skills")
		if err != nil {
			return student, err
		}
		student = student.WithSkills(skills)
	}

	return student, nil
}

// promptProfile asks for every field, pre-filling the defaults.
func promptProfile(defaults profile.Student) (profile.Student, error) {
	student := defaults
	var err error

	if student.CGPA, err = promptFloat("CGPA", defaults.CGPA, profile.MaxCGPA); err != nil {
		return student, err
	}
	if student.TenthMarks, err = promptFloat("10th marks (%)", defaults.TenthMarks, profile.MaxMarks); err != nil {
		return student, err
	}
	if student.TwelfthMarks, err = promptFloat("12th marks (%)", defaults.TwelfthMarks, profile.MaxMarks); err != nil {
		return student, err
	}

	skillsPrompt := promptui.Prompt{
		Label:   "Skills (comma separated)",
		Default: strings.Join(defaults.Skills, ", "),
	}
	skills, err := skillsPrompt.Run()
	if err != nil {
		return student, err
	}
	student = student.WithSkills(strings.Split(skills, ","))

	for _, field := range []struct {
		label  string
		target *bool
	}{
		{"Internships?", &student.Internships},
		{"Projects?", &student.Projects},
		{"Training?", &student.Training},
		{"Technical certification or course?", &student.TechnicalCourse},
	} {
		if *field.target, err = promptBool(field.label); err != nil {
			return student, err
		}
	}

	if student.CommunicationLevel, err = promptInt("Communication level (1-5)", defaults.CommunicationLevel, profile.MinCommunication, profile.MaxCommunication); err != nil {
		return student, err
	}
	if student.TechnicalSkillsScore, err = promptInt("Technical skills score (0-100)", defaults.TechnicalSkillsScore, 0, profile.MaxTechnical); err != nil {
		return student, err
	}

	return student, nil
}

func promptFloat(label string, def, upper float64) (float64, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Default:  strconv.FormatFloat(def, 'f', -1, 64),
		Validate: validateFloat(upper),
	}

	raw, err := prompt.Run()
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}

func promptInt(label string, def, lower, upper int) (int, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Default:  strconv.Itoa(def),
		Validate: validateInt(lower, upper),
	}

	raw, err := prompt.Run()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(raw))
}

func promptBool(label string) (bool, error) {
	prompt := promptui.Select{
		Label: label,
		Items: []string{PromptNo, PromptYes},
	}

	_, answer, err := prompt.Run()
	if err != nil {
		return false, err
	}
	return answer == PromptYes, nil
}

func validateFloat(upper float64) promptui.ValidateFunc {
	return func(input string) error {
		v, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
		if err != nil {
			return errors.New("not a number")
		}
		if v < 0 || v > upper {
			return fmt.Errorf("must be between 0 and %s", strconv.FormatFloat(upper, 'f', -1, 64))
		}
		return nil
	}
}

func validateInt(lower, upper int) promptui.ValidateFunc {
	return func(input string) error {
		v, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil {
			return errors.New("not a whole number")
		}
		if v < lower || v > upper {
			return fmt.Errorf("must be between %d and %d", lower, upper)
		}
		return nil
	}
}
