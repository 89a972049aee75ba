package billing

var TranslateError = translateError
