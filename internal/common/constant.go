package common

// SessionCookieName is the cookie that carries the logged-in username
// (or a signed token wrapping it, depending on the session mode).
const SessionCookieName = "usuario"

// TimestampLayout is the text layout used for data_requisicao/data_resposta.
const TimestampLayout = "2006-01-02 15:04:05"

// LoginErrorMessage is returned as {"erro": ...} when credentials do not match.
const LoginErrorMessage = "Usuário ou senha inválidos"
