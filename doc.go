// Package grademywork is a Go client for the grademywork grading service:
// accounts, assessments, sheets and sheet privileges.
//
// Every endpoint of the service is one method on *Client:
//
//   - Accounts: Register, Reset, Verify, Login, Logout, ChangePassword, GetUser
//   - Assessments: NewAssessment, GetAssessment, UpdateAssessment, SetPublic,
//     SetArchive, SetRelease, GetAssessmentStats, DeleteAssessment
//   - Sheets: GetSheet, AddSheet, UpdateSheet, DeleteSheet, SetAnswer
//   - Privileges: GetPrivileges, AddPrivilege, DeletePrivilege
//
// The client keeps the session cookie in a cookie jar and remembers the
// signed-in user and the last assessment it fetched. Any successful call that
// changes state on the service clears both; GetUser and GetAssessment refill
// them.
//
// Errors come in two shapes. A non-2xx answer from the service is a
// *RemoteError whose message is "<status> - <body>". A request that never got
// an answer returns the net/http error untouched. Nothing is retried.
//
// Typical usage:
//
//	client, err := grademywork.New(
//	    grademywork.WithBaseURL("https://grademywork.example.org"),
//	    grademywork.WithLogger(hclog.Default()),
//	)
//	if err != nil {
//	    return err
//	}
//	if _, err := client.Login(ctx, "ada@example.org", "secret"); err != nil {
//	    return err
//	}
//	assessment, err := client.GetAssessment(ctx, "ada", "midterm")
package grademywork
