package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Имена
	SemaInfo                Code = 3000
	SemaUndefinedVariable   Code = 3001
	SemaUndefinedFunction   Code = 3002
	SemaUndefinedModule     Code = 3003
	SemaUndefinedClass      Code = 3004
	SemaUndefinedAttribute  Code = 3005
	SemaUndefinedMethod     Code = 3006
	SemaImportNameNotFound  Code = 3007
	SemaUndefinedBaseClass  Code = 3008
	SemaDuplicateDefinition Code = 3009

	// Типы
	SemaTypeMismatch          Code = 3010
	SemaArgCountMismatch      Code = 3011
	SemaArgTypeMismatch       Code = 3012
	SemaReturnTypeMismatch    Code = 3013
	SemaInvalidBinaryOperands Code = 3014
	SemaInvalidUnaryOperand   Code = 3015
	SemaInvalidComparison     Code = 3016
	SemaInvalidCondition      Code = 3017
	SemaNotIterable           Code = 3018
	SemaNotIndexable          Code = 3019
	SemaMissingAnnotation     Code = 3020
	SemaMissingSelf           Code = 3021
	SemaNotCallable           Code = 3022
	SemaVoidValue             Code = 3023
	SemaInvalidRaise          Code = 3024

	// Вывод типов
	InferMismatch        Code = 3030
	InferOccursCheck     Code = 3031
	InferUnresolvedVar   Code = 3032
	InferUnknownElemType Code = 3033

	// Структурные
	SemaMissingReturn       Code = 3040
	SemaInvalidSuper        Code = 3041
	SemaMultipleTargets     Code = 3042
	SemaUnsupported         Code = 3043
	SemaMultipleInheritance Code = 3044
	SemaReturnOutsideFunc   Code = 3045
	SemaInvalidAssignTarget Code = 3046
	SemaCyclicInheritance   Code = 3047
	SemaInvalidAugAssign    Code = 3048

	// Входные данные
	IOLoadFailed     Code = 4001
	IODecodeFailed   Code = 4002

	// Проект
	ProjInvalidEntry    Code = 5001
	ProjInvalidManifest Code = 5002
	ProjDuplicateModule Code = 5003
)

var codeDescription = map[Code]string{
	UnknownCode:             "Unknown error",
	SemaInfo:                "Semantic information",
	SemaUndefinedVariable:   "Undefined variable",
	SemaUndefinedFunction:   "Undefined function",
	SemaUndefinedModule:     "Undefined module",
	SemaUndefinedClass:      "Undefined class",
	SemaUndefinedAttribute:  "Undefined attribute",
	SemaUndefinedMethod:     "Undefined method",
	SemaImportNameNotFound:  "Imported name not found",
	SemaUndefinedBaseClass:  "Undefined base class",
	SemaDuplicateDefinition: "Duplicate definition",

	SemaTypeMismatch:          "Type mismatch",
	SemaArgCountMismatch:      "Argument count mismatch",
	SemaArgTypeMismatch:       "Argument type mismatch",
	SemaReturnTypeMismatch:    "Return type mismatch",
	SemaInvalidBinaryOperands: "Invalid binary operands",
	SemaInvalidUnaryOperand:   "Invalid unary operand",
	SemaInvalidComparison:     "Invalid comparison",
	SemaInvalidCondition:      "Invalid condition",
	SemaNotIterable:           "Value is not iterable",
	SemaNotIndexable:          "Value is not indexable",
	SemaMissingAnnotation:     "Missing type annotation",
	SemaMissingSelf:           "Method is missing self",
	SemaNotCallable:           "Value is not callable",
	SemaVoidValue:             "Void value used as expression",
	SemaInvalidRaise:          "Invalid raise",

	InferMismatch:        "Cannot unify types",
	InferOccursCheck:     "Infinite type",
	InferUnresolvedVar:   "Unresolved type variable",
	InferUnknownElemType: "Element type is not known yet",

	SemaMissingReturn:       "Missing return",
	SemaInvalidSuper:        "Invalid super() usage",
	SemaMultipleTargets:     "Multiple assignment targets",
	SemaUnsupported:         "Unsupported construct",
	SemaMultipleInheritance: "Multiple inheritance",
	SemaReturnOutsideFunc:   "Return outside function",
	SemaInvalidAssignTarget: "Invalid assignment target",
	SemaCyclicInheritance:   "Cyclic inheritance",
	SemaInvalidAugAssign:    "Invalid augmented assignment",

	IOLoadFailed:        "Failed to load module",
	IODecodeFailed:      "Failed to decode module",
	ProjInvalidEntry:    "Invalid entry module",
	ProjInvalidManifest: "Invalid project manifest",
	ProjDuplicateModule: "Duplicate module",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// IsInference reports whether c belongs to the type-inference group.
func (c Code) IsInference() bool {
	return c >= InferMismatch && c < SemaMissingReturn
}
