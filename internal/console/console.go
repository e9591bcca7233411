// Package console drives the hospital service from an interactive text menu.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jwalitptl/patient-registry/internal/model"
	"github.com/jwalitptl/patient-registry/internal/service/hospital"
	"github.com/jwalitptl/patient-registry/pkg/logger"
)

// Service is the part of the hospital service the menu drives.
type Service interface {
	Admit(ctx context.Context, id int, name, admissionDate, treatmentDetails string) (*model.Record, error)
	UndoLastAdmission(ctx context.Context) (*model.Record, error)
	ProcessEmergency(ctx context.Context) (*model.Record, error)
	FindPatient(ctx context.Context, id int) (*model.Record, error)
	DischargePatient(ctx context.Context, id int) (*model.Record, error)
	ListPatients(ctx context.Context) []*model.Record
	CalculateBill(ctx context.Context, days int) int
	EvaluateInventory(ctx context.Context, expr string) (int, error)
}

var _ Service = (*hospital.Service)(nil)

const menu = `
------ Hospital Patient Record System ------
1. Add Patient
2. Undo Last Admission
3. Process Emergency Patient
4. Calculate Billing (Polynomial)
5. Evaluate Inventory (Postfix Expression)
6. Display Patients & Exit
7. Find Patient
8. Discharge Patient
Enter choice: `

type Console struct {
	service Service
	logger  *logger.Logger

	in  *bufio.Scanner
	out io.Writer
}

func New(service Service, log *logger.Logger) *Console {
	if log == nil {
		log = logger.Nop()
	}
	return &Console{
		service: service,
		logger:  log.WithFields(map[string]interface{}{"component": "console"}),
	}
}

// Run shows the menu until the user picks "Display Patients & Exit", the
// input ends or ctx is cancelled. Service errors are printed and the menu
// continues; only input read failures are returned.
func (c *Console) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	c.in = bufio.NewScanner(in)
	c.out = out

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		choice, ok := c.prompt(menu)
		if !ok {
			return c.in.Err()
		}

		var err error
		switch strings.TrimSpace(choice) {
		case "1":
			err = c.addPatient(ctx)
		case "2":
			err = c.undoLastAdmission(ctx)
		case "3":
			err = c.processEmergency(ctx)
		case "4":
			err = c.calculateBill(ctx)
		case "5":
			err = c.evaluateInventory(ctx)
		case "6":
			c.displayPatients(ctx)
			c.println("Exiting System...")
			return nil
		case "7":
			err = c.findPatient(ctx)
		case "8":
			err = c.dischargePatient(ctx)
		default:
			c.println("Invalid choice.")
		}

		if err == io.EOF {
			return c.in.Err()
		}
		if err != nil {
			c.logger.Debug("Menu operation failed", "choice", choice, "error", err.Error())
			c.printf("Error: %v\n", err)
		}
	}
}

func (c *Console) addPatient(ctx context.Context) error {
	id, err := c.promptInt("Patient ID: ")
	if err != nil {
		return err
	}
	name, ok := c.prompt("Patient Name: ")
	if !ok {
		return io.EOF
	}
	date, ok := c.prompt("Admission Date: ")
	if !ok {
		return io.EOF
	}
	treatment, ok := c.prompt("Treatment Details: ")
	if !ok {
		return io.EOF
	}

	if _, err := c.service.Admit(ctx, id, name, date, treatment); err != nil {
		return err
	}
	c.println("Patient Added.")
	return nil
}

func (c *Console) undoLastAdmission(ctx context.Context) error {
	record, err := c.service.UndoLastAdmission(ctx)
	if err != nil {
		c.println("No records to undo.")
		return nil
	}
	c.printf("Undo Successful: Removed Patient %s\n", record.Name())
	return nil
}

func (c *Console) processEmergency(ctx context.Context) error {
	record, err := c.service.ProcessEmergency(ctx)
	if err != nil {
		c.println("No Emergency Patients in Queue.")
		return nil
	}
	c.printf("Emergency Patient Processed: %s\n", record.Name())
	return nil
}

func (c *Console) calculateBill(ctx context.Context) error {
	days, err := c.promptInt("Enter number of treatment days: ")
	if err != nil {
		return err
	}
	c.printf("Total Bill = ₹%d\n", c.service.CalculateBill(ctx, days))
	return nil
}

func (c *Console) evaluateInventory(ctx context.Context) error {
	expr, ok := c.prompt("Enter postfix expression (e.g., 23*54*+): ")
	if !ok {
		return io.EOF
	}
	value, err := c.service.EvaluateInventory(ctx, expr)
	if err != nil {
		return err
	}
	c.printf("Inventory Value = %d\n", value)
	return nil
}

func (c *Console) findPatient(ctx context.Context) error {
	id, err := c.promptInt("Patient ID: ")
	if err != nil {
		return err
	}
	record, err := c.service.FindPatient(ctx, id)
	if err != nil {
		return err
	}
	c.println(formatRecord(record))
	return nil
}

func (c *Console) dischargePatient(ctx context.Context) error {
	id, err := c.promptInt("Patient ID: ")
	if err != nil {
		return err
	}
	record, err := c.service.DischargePatient(ctx, id)
	if err != nil {
		return err
	}
	c.printf("Patient Discharged: %s\n", record.Name())
	return nil
}

func (c *Console) displayPatients(ctx context.Context) {
	c.println("\n--- Current Patient Records ---")
	for _, record := range c.service.ListPatients(ctx) {
		c.println(formatRecord(record))
	}
	c.println("")
}

func formatRecord(r *model.Record) string {
	return fmt.Sprintf("ID: %d | %s | %s | %s", r.ID(), r.Name(), r.AdmissionDate(), r.TreatmentDetails())
}

// prompt writes label and reads one line. ok is false once input is exhausted.
func (c *Console) prompt(label string) (string, bool) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSuffix(c.in.Text(), "\r"), true
}

func (c *Console) promptInt(label string) (int, error) {
	line, ok := c.prompt(label)
	if !ok {
		return 0, io.EOF
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", line)
	}
	return n, nil
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}
