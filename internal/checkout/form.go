package checkout

import "sync"

type Field struct {
	Name  string
	Rules []Rule
	// Card fields only apply when paying by card.
	Card bool
	// Format rewrites typed input, nil leaves it as is.
	Format func(string) string
}

// Validate runs the rules in order and returns the first failure message, or "".
func (f Field) Validate(value string) string {
	rules := f.Rules
	if len(rules) == 0 {
		rules = []Rule{RuleRequired}
	}
	for _, r := range rules {
		if msg := r.Check(value); msg != "" {
			return msg
		}
	}
	return ""
}

const (
	PaymentCard   = "card"
	PaymentPayPal = "paypal"
	PaymentApple  = "apple"
)

// KnownPayment reports whether m is an offered payment method. Blank means card.
func KnownPayment(m string) bool {
	switch m {
	case "", PaymentCard, PaymentPayPal, PaymentApple:
		return true
	}
	return false
}

var defaultFields = []struct {
	name, rules string
	card        bool
	format      func(string) string
}{
	{"email", "required,email", false, nil},
	{"first_name", "required", false, nil},
	{"last_name", "required", false, nil},
	{"address", "required", false, nil},
	{"city", "required", false, nil},
	{"zip", "required,zip", false, nil},
	{"card_number", "required,card", true, FormatCardNumber},
	{"expiry", "required,expiry", true, FormatExpiry},
	{"cvv", "required,cvv", true, nil},
}

func DefaultFields() []Field {
	out := make([]Field, 0, len(defaultFields))
	for _, d := range defaultFields {
		out = append(out, Field{Name: d.name, Rules: ParseRules(d.rules), Card: d.card, Format: d.format})
	}
	return out
}

// Errors maps field name to message. Empty means the form may be submitted.
type Errors map[string]string

func (e Errors) Valid() bool { return len(e) == 0 }

type Form struct {
	Fields []Field
}

func NewForm() *Form { return &Form{Fields: DefaultFields()} }

func (f *Form) applies(fd Field, payment string) bool {
	return !fd.Card || payment == "" || payment == PaymentCard
}

// Validate checks every field that applies to the payment method. Missing values are blank.
func (f *Form) Validate(values map[string]string, payment string) Errors {
	errs := Errors{}
	for _, fd := range f.Fields {
		if !f.applies(fd, payment) {
			continue
		}
		if msg := fd.Validate(values[fd.Name]); msg != "" {
			errs[fd.Name] = msg
		}
	}
	return errs
}

// Field looks up a field by name.
func (f *Form) Field(name string) (Field, bool) {
	for _, fd := range f.Fields {
		if fd.Name == name {
			return fd, true
		}
	}
	return Field{}, false
}

// Format applies the field's input formatting. Unknown fields pass through.
func (f *Form) Format(name, value string) string {
	if fd, ok := f.Field(name); ok && fd.Format != nil {
		return fd.Format(value)
	}
	return value
}

// Tracker follows field-level feedback while the form is filled in: a field is
// checked when it loses focus and, once in error, on every edit until it passes.
type Tracker struct {
	form *Form

	mu   sync.Mutex
	errs Errors
}

func NewTracker(f *Form) *Tracker {
	if f == nil {
		f = NewForm()
	}
	return &Tracker{form: f, errs: Errors{}}
}

func (t *Tracker) Form() *Form { return t.form }

func (t *Tracker) Blur(name, value string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.checkLocked(name, value)
}

func (t *Tracker) Edit(name, value string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, inError := t.errs[name]; !inError {
		return ""
	}
	return t.checkLocked(name, value)
}

// Submit re-checks the whole form and replaces the tracked errors.
func (t *Tracker) Submit(values map[string]string, payment string) Errors {
	errs := t.form.Validate(values, payment)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.errs = Errors{}
	for k, v := range errs {
		t.errs[k] = v
	}
	return errs
}

func (t *Tracker) Errors() Errors {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(Errors, len(t.errs))
	for k, v := range t.errs {
		out[k] = v
	}
	return out
}

func (t *Tracker) checkLocked(name, value string) string {
	fd, ok := t.form.Field(name)
	if !ok {
		return ""
	}
	msg := fd.Validate(value)
	if msg == "" {
		delete(t.errs, name)
	} else {
		t.errs[name] = msg
	}
	return msg
}
