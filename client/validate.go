package client

import "fmt"

// Validation happens before any frame is built. A value that fails here is
// never sent on the wire.

func validateCentralUnit(centralUnit int) error {
	if centralUnit < 1 || centralUnit > 10 {
		return fmt.Errorf("Central unit %d is not in [1, 10]: %w",
			centralUnit, ErrValidation)
	}

	return nil
}

func validateItem(item int) error {
	if item < 0 || item > 0xFFFF {
		return fmt.Errorf("Item number %d is not in [0, 65535]: %w",
			item, ErrValidation)
	}

	return nil
}

func validateLevel(level int) error {
	if level < 0 || level > 100 {
		return fmt.Errorf("Dimmer level %d is not in [0, 100]: %w",
			level, ErrValidation)
	}

	return nil
}

func validateAddress(centralUnit, item int) error {
	if err := validateCentralUnit(centralUnit); err != nil {
		return err
	}

	return validateItem(item)
}
