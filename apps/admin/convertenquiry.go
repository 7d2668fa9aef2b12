package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) convertEnquiry(enquiryID, courseID string) error {
	conv, err := cli.enquirySvc.Convert(context.Background(), enquiryID, courseID)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "enrolled %s in course %s (enrollment %s, %s)\n",
		conv.User.Email, conv.Enrollment.CourseID, conv.Enrollment.ID, conv.Enrollment.Status)
	return nil
}
